package deploy

import (
	"context"
	"fmt"

	tfe "github.com/hashicorp/go-tfe"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfvars"
)

// uploadVariables pushes every entry as its own vars call, non-sensitive
// entries first so plain configuration lands before write-only values. The
// first failure aborts the remainder; entries already uploaded stay on the
// workspace.
func (d *Deployer) uploadVariables(ctx context.Context, ws *tfe.Workspace, entries tfvars.Entries) error {
	for _, sensitive := range []bool{false, true} {
		for _, entry := range entries {
			if entry.Sensitive != sensitive {
				continue
			}

			if err := d.uploadVariable(ctx, ws, entry); err != nil {
				return err
			}
		}
	}

	return nil
}

func (d *Deployer) uploadVariable(ctx context.Context, ws *tfe.Workspace, entry tfvars.Entry) error {
	_, err := d.Client.TFE.Variables.Create(ctx, ws.ID, tfe.VariableCreateOptions{
		Key:         tfe.String(entry.Key),
		Value:       tfe.String(entry.Value),
		Description: tfe.String(entry.Description),
		Category:    tfe.Category(tfe.CategoryTerraform),
		HCL:         tfe.Bool(false),
		Sensitive:   tfe.Bool(entry.Sensitive),
	})
	if err != nil {
		return tfc.WrapRemote(fmt.Sprintf("create variable %q", entry.Key), err)
	}

	d.Logger.Debug("variable created", "key", entry.Key, "sensitive", entry.Sensitive)

	return nil
}
