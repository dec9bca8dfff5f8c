package steps

import (
	"fmt"
	"slices"

	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/provisioning"
)

// LienRestriction is the restriction of the project deletion lien.
const LienRestriction = "resourcemanager.projects.delete"

func (c *Catalog) createDeletionLien(ctx *provisioning.Context) error {
	if !ctx.Project.CreateDeletionLien {
		return nil
	}
	id := ctx.ProjectID()

	out, err := c.Runner.Gcloud(ctx, id,
		"alpha", "resource-manager", "liens", "list", "--format", "value(restrictions)")
	if err != nil {
		return fmt.Errorf("failed to list liens: %w", err)
	}
	if slices.Contains(gcp.Lines(out), LienRestriction) {
		provisioning.LogResourceExists(ctx.Observer, id, "lien", LienRestriction)
		return nil
	}

	if _, err := c.Runner.Gcloud(ctx, id,
		"alpha", "resource-manager", "liens", "create",
		"--restrictions", LienRestriction,
		"--reason", "Automated project deletion lien deployment."); err != nil {
		return fmt.Errorf("failed to create lien: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, id, "lien", LienRestriction)
	return nil
}
