package steps

import (
	"fmt"

	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/provisioning"
)

// getOrCreateProject records the project number, creating the project when
// it cannot be described. A describe failure for other reasons (missing
// permission) leads to a create attempt that fails if the project exists.
func (c *Catalog) getOrCreateProject(ctx *provisioning.Context) error {
	id := ctx.ProjectID()

	if num, err := gcp.ProjectNumber(ctx, c.Runner, id); err == nil {
		provisioning.LogResourceExists(ctx.Observer, id, "project", id)
		ctx.Fields().ProjectNumber = num
		return nil
	}

	args := []string{"projects", "create", id}
	flag, parent := ctx.Project.Parent(ctx.Root.Overall)
	if flag != "" {
		args = append(args, flag, parent)
	} else {
		ctx.Observer.Printf("%s: deploying without a parent organization or folder", id)
	}
	if _, err := c.Runner.Gcloud(ctx, "", args...); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, id, "project", id)

	num, err := gcp.ProjectNumber(ctx, c.Runner, id)
	if err != nil {
		return fmt.Errorf("failed to get project number: %w", err)
	}
	ctx.Fields().ProjectNumber = num
	return nil
}

func (c *Catalog) setupBilling(ctx *provisioning.Context) error {
	account := ctx.Project.BillingAccountOr(ctx.Root.Overall)
	_, err := c.Runner.Gcloud(ctx, "",
		"beta", "billing", "projects", "link", ctx.ProjectID(), "--billing-account", account)
	if err != nil {
		return fmt.Errorf("failed to link billing account: %w", err)
	}
	return nil
}
