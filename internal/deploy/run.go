package deploy

import (
	"context"
	"fmt"

	tfe "github.com/hashicorp/go-tfe"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
)

// defaultRunMessage is attached to runs queued without --message.
const defaultRunMessage = "Queued by tfc-nocode-deploy"

// createRun queues one run on the workspace. Whether it applies is
// governed by the workspace's auto-apply setting; the tool does not wait
// for any run state.
func (d *Deployer) createRun(ctx context.Context, ws *tfe.Workspace) (*tfe.Run, error) {
	message := d.Config.Message
	if message == "" {
		message = defaultRunMessage
	}

	run, err := d.Client.TFE.Runs.Create(ctx, tfe.RunCreateOptions{
		Message:   tfe.String(message),
		Workspace: ws,
	})
	if err != nil {
		return nil, tfc.WrapRemote("create run", err)
	}

	d.Logger.Info("run created", "id", run.ID, "workspace", ws.ID)

	return run, nil
}

// runURL composes the human-followable run location under the service's
// /app path.
func (d *Deployer) runURL(ws *tfe.Workspace, run *tfe.Run) string {
	return fmt.Sprintf("%s/app/%s/workspaces/%s/runs/%s", d.Config.AppRoot(), d.Config.Organization, ws.ID, run.ID)
}
