package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfvars"
)

func writeVarFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys a fresh prefixed workspace end to end", func(t *testing.T) {
		var attachBody map[string]interface{}
		var varKeys []string

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/api/v2/organizations/org/workspaces", testServerResHandler(t, 201, createdWorkspaceResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123", func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&attachBody); err != nil {
				t.Fatal(err)
			}

			w.WriteHeader(200)

			if _, err := w.Write([]byte(attachedModuleResponse)); err != nil {
				t.Fatal(err)
			}
		})
		mux.HandleFunc("/api/v2/workspaces/ws-abc123/vars", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}

			attributes := body["data"].(map[string]interface{})["attributes"].(map[string]interface{})
			varKeys = append(varKeys, attributes["key"].(string))

			w.WriteHeader(201)

			if _, err := w.Write([]byte(variableResponse)); err != nil {
				t.Fatal(err)
			}
		})
		mux.HandleFunc("/api/v2/runs", testServerResHandler(t, 201, runResponse))

		cfg := newTestConfig(server.URL)
		cfg.Prefix = "demo"
		cfg.VariablesFile = writeVarFile(t, "vars", "region=us-east-1\ninstance_count=3\n")
		cfg.SensitiveFile = writeVarFile(t, "secrets", "db_password=hunter2\n")

		d := newTestDeployer(t, cfg)

		result, err := d.Run(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, &Result{
			Workspace: "ws-abc123",
			RunID:     "run-xyz789",
			URL:       server.URL + "/app/org/workspaces/ws-abc123/runs/run-xyz789",
		}, result)

		attributes := attachBody["data"].(map[string]interface{})["attributes"].(map[string]interface{})
		assert.Equal(t, "private/acme/s3-bucket/aws/1.0.0", attributes["source-module-id"])

		assert.Equal(t, []string{"region", "instance_count", "db_password"}, varKeys)
	})

	t.Run("reuses a named workspace end to end", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/api/v2/organizations/org/workspaces", func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected workspace create")
		})
		mux.HandleFunc("/api/v2/organizations/org/workspaces/staging", testServerResHandler(t, 200, namedWorkspaceResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123", testServerResHandler(t, 200, attachedModuleResponse))
		mux.HandleFunc("/api/v2/runs", testServerResHandler(t, 201, runResponse))

		cfg := newTestConfig(server.URL)
		cfg.Workspace = "staging"

		d := newTestDeployer(t, cfg)

		result, err := d.Run(ctx)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, "ws-abc123", result.Workspace)
		assert.Equal(t, "run-xyz789", result.RunID)
	})

	t.Run("a malformed variables file fails before any network call", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		})

		cfg := newTestConfig(server.URL)
		cfg.Prefix = "demo"
		cfg.VariablesFile = writeVarFile(t, "vars", "region=us-east-1\noops\n")

		d := newTestDeployer(t, cfg)

		_, err := d.Run(ctx)

		var parseErr *tfvars.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected a ParseError, got %v", err)
		}

		assert.Equal(t, 2, parseErr.Line)
	})

	t.Run("an attach failure stops the flow and names the workspace", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/api/v2/organizations/org/workspaces", testServerResHandler(t, 201, createdWorkspaceResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123", testServerResHandler(t, 422, invalidAttributeResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123/vars", func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected variable upload after a failed attach")
		})
		mux.HandleFunc("/api/v2/runs", func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected run after a failed attach")
		})

		cfg := newTestConfig(server.URL)
		cfg.Prefix = "demo"

		d := newTestDeployer(t, cfg)

		_, err := d.Run(ctx)

		var remoteErr *tfc.RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("expected a RemoteError, got %v", err)
		}

		assert.Contains(t, err.Error(), "workspace ws-abc123")
		assert.Equal(t, 422, remoteErr.Status)
	})

	t.Run("uploads inline entries alongside file entries", func(t *testing.T) {
		var varKeys []string

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/api/v2/organizations/org/workspaces", testServerResHandler(t, 201, createdWorkspaceResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123", testServerResHandler(t, 200, attachedModuleResponse))
		mux.HandleFunc("/api/v2/workspaces/ws-abc123/vars", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}

			attributes := body["data"].(map[string]interface{})["attributes"].(map[string]interface{})
			varKeys = append(varKeys, attributes["key"].(string))

			w.WriteHeader(201)

			if _, err := w.Write([]byte(variableResponse)); err != nil {
				t.Fatal(err)
			}
		})
		mux.HandleFunc("/api/v2/runs", testServerResHandler(t, 201, runResponse))

		cfg := newTestConfig(server.URL)
		cfg.Prefix = "demo"
		cfg.VariablesFile = writeVarFile(t, "vars", "region=us-east-1\n")

		d := newTestDeployer(t, cfg)
		d.Variables = tfvars.Entries{
			{Key: "environment", Value: "staging"},
			{Key: "api_key", Value: "abc123", Sensitive: true},
		}

		if _, err := d.Run(ctx); err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, []string{"region", "environment", "api_key"}, varKeys)
	})
}
