package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	tfe "github.com/hashicorp/go-tfe"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
)

// Suffixer produces the unique suffix appended to prefixed workspace
// names. It is an interface so tests can pin the generated name.
type Suffixer interface {
	Suffix() string
}

// UUIDSuffixer is the production Suffixer: a random v4 UUID per call.
type UUIDSuffixer struct{}

func (UUIDSuffixer) Suffix() string { return uuid.New().String() }

// resolveWorkspace returns the workspace the run will target. A configured
// name is read first and created only when the read reports not-found. A
// prefix always creates a fresh workspace without reading, the generated
// name being unique by construction.
func (d *Deployer) resolveWorkspace(ctx context.Context) (*tfe.Workspace, error) {
	if d.Config.Workspace != "" {
		ws, err := d.Client.TFE.Workspaces.Read(ctx, d.Config.Organization, d.Config.Workspace)
		if err == nil {
			d.Logger.Info("workspace found", "id", ws.ID, "name", ws.Name)
			return ws, nil
		}

		if !errors.Is(err, tfe.ErrResourceNotFound) {
			return nil, tfc.WrapRemote("read workspace", err)
		}

		return d.createWorkspace(ctx, d.Config.Workspace)
	}

	return d.createWorkspace(ctx, fmt.Sprintf("%s-%s", d.Config.Prefix, d.Suffixer.Suffix()))
}

func (d *Deployer) createWorkspace(ctx context.Context, name string) (*tfe.Workspace, error) {
	options := tfe.WorkspaceCreateOptions{
		Name:      tfe.String(name),
		AutoApply: tfe.Bool(d.Config.AutoApply),
	}

	if d.Config.TerraformVersion != "" {
		options.TerraformVersion = tfe.String(d.Config.TerraformVersion)
	}

	ws, err := d.Client.TFE.Workspaces.Create(ctx, d.Config.Organization, options)
	if err != nil {
		return nil, tfc.WrapRemote("create workspace", err)
	}

	d.Logger.Info("workspace created", "id", ws.ID, "name", ws.Name)

	return ws, nil
}
