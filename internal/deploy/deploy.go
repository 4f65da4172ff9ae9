// Package deploy runs the no-code deployment flow: resolve a workspace,
// attach the published module, upload variables, queue a run.
package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/config"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/logging"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfvars"
)

// Result is the single success output, printed as JSON on stdout.
type Result struct {
	Workspace string `json:"workspace"`
	RunID     string `json:"run_id"`
	URL       string `json:"url"`
}

// Deployer executes one deployment. Variables may be pre-seeded by the
// caller (the GitHub Action passes them inline); file-based variables are
// loaded at the start of Run, before the first network call.
type Deployer struct {
	Client    *tfc.Client
	Config    *config.Config
	Logger    *slog.Logger
	Suffixer  Suffixer
	Variables tfvars.Entries
}

// New returns a Deployer with the default UUID suffixer.
func New(client *tfc.Client, cfg *config.Config, logger *slog.Logger) *Deployer {
	if logger == nil {
		logger = logging.New(nil, slog.LevelInfo)
	}

	return &Deployer{
		Client:   client,
		Config:   cfg,
		Logger:   logger,
		Suffixer: UUIDSuffixer{},
	}
}

// Run walks the steps in order and stops at the first failure. A workspace
// created by an earlier step is left in place when a later step fails; the
// returned error names it so an operator can clean up or retry.
func (d *Deployer) Run(ctx context.Context) (*Result, error) {
	entries, err := d.loadVariables()
	if err != nil {
		return nil, err
	}

	ws, err := d.resolveWorkspace(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.Client.AttachModule(ctx, ws.ID, d.Config.Module); err != nil {
		return nil, fmt.Errorf("workspace %s: %w", ws.ID, err)
	}

	d.Logger.Info("module attached", "workspace", ws.ID, "module", d.Config.Module)

	if err := d.uploadVariables(ctx, ws, append(entries, d.Variables...)); err != nil {
		return nil, fmt.Errorf("workspace %s: %w", ws.ID, err)
	}

	run, err := d.createRun(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", ws.ID, err)
	}

	return &Result{
		Workspace: ws.ID,
		RunID:     run.ID,
		URL:       d.runURL(ws, run),
	}, nil
}

// loadVariables reads both variable files up front so a malformed file
// fails the invocation before anything is created remotely.
func (d *Deployer) loadVariables() (tfvars.Entries, error) {
	plain, err := tfvars.Load(d.Config.VariablesFile)
	if err != nil {
		return nil, err
	}

	sensitive, err := tfvars.LoadSensitive(d.Config.SensitiveFile)
	if err != nil {
		return nil, err
	}

	d.Logger.Debug("variables loaded", "plain", len(plain), "sensitive", len(sensitive))

	return append(plain, sensitive...), nil
}
