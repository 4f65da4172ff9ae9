package deploy

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/config"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/logging"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
)

// staticSuffixer pins generated workspace names in tests.
type staticSuffixer string

func (s staticSuffixer) Suffix() string { return string(s) }

func testServerResHandler(t *testing.T, code int, resBody string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)

		_, err := fmt.Fprint(w, resBody)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func newTestConfig(serverURL string) *config.Config {
	return &config.Config{
		Address:      serverURL + "/api/v2",
		Module:       "private/acme/s3-bucket/aws/1.0.0",
		AutoApply:    true,
		Token:        "12345",
		Organization: "org",
	}
}

func newTestDeployer(t *testing.T, cfg *config.Config) *Deployer {
	t.Helper()

	client, err := tfc.NewClient(&tfc.Config{Address: cfg.Address, Token: cfg.Token})
	if err != nil {
		t.Fatal(err)
	}

	d := New(client, cfg, logging.New(io.Discard, slog.LevelError))
	d.Suffixer = staticSuffixer("0000")

	return d
}

const (
	createdWorkspaceResponse = `{"data": {"id": "ws-abc123", "type": "workspaces", "attributes": {"name": "demo-0000", "auto-apply": true}}}`
	namedWorkspaceResponse   = `{"data": {"id": "ws-abc123", "type": "workspaces", "attributes": {"name": "staging", "auto-apply": true}}}`
	attachedModuleResponse   = `{"data": {"id": "ws-abc123", "type": "workspaces", "attributes": {"name": "demo-0000", "source-module-id": "private/acme/s3-bucket/aws/1.0.0"}}}`
	variableResponse         = `{"data": {"id": "var-abc123", "type": "vars", "attributes": {"key": "foo", "value": "bar", "category": "terraform"}}}`
	runResponse              = `{"data": {"id": "run-xyz789", "type": "runs", "attributes": {"status": "pending"}}}`
	notFoundResponse         = `{"errors": [{"status": "404", "title": "not found"}]}`
	invalidAttributeResponse = `{"errors": [{"status": "422", "title": "invalid attribute", "detail": "Name has already been taken"}]}`
	forbiddenResponse        = `{"errors": [{"status": "403", "title": "forbidden"}]}`
)
