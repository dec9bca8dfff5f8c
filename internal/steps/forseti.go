package steps

import (
	"errors"
	"strconv"

	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
)

// ErrNoForsetiServiceAccount is returned when an access grant runs before
// the forseti installation recorded its service account.
var ErrNoForsetiServiceAccount = errors.New("forseti service account not found in generated fields")

// dryRunServiceAccount stands in for the forseti service account in dry runs,
// where the installer never runs.
const dryRunServiceAccount = "forseti-server@dry-run.iam.gserviceaccount.com"

func (c *Catalog) installForseti(ctx *provisioning.Context) error {
	err := c.Runner.Binary(ctx, c.Options.Binaries.ForsetiInstaller,
		"--project_yaml_path", c.Options.ProjectYAML,
		"--generated_fields_path", c.Options.GeneratedFieldsPath,
		"--enable_remote_state="+strconv.FormatBool(c.Options.EnableTerraform),
	)
	if err != nil {
		return err
	}

	if c.Options.DryRun {
		ctx.Store.SetForseti(state.ForsetiFields{ServiceAccount: dryRunServiceAccount})
		return nil
	}

	forsetiID := ctx.Root.ForsetiProject().ProjectID
	sa, err := gcp.ForsetiServerServiceAccount(ctx, c.Runner, forsetiID)
	if err != nil {
		return err
	}
	bucket, err := gcp.ForsetiServerBucket(ctx, c.Runner, forsetiID)
	if err != nil {
		return err
	}

	ctx.Store.SetForseti(state.ForsetiFields{ServiceAccount: sa, ServerBucket: bucket})
	return nil
}

func (c *Catalog) grantForsetiAccess(ctx *provisioning.Context, projectID string) error {
	forseti := ctx.Store.Forseti()
	if forseti == nil || forseti.ServiceAccount == "" {
		return ErrNoForsetiServiceAccount
	}
	return c.Runner.Binary(ctx, c.Options.Binaries.GrantForsetiAccess,
		"--project_id", projectID,
		"--forseti_service_account", forseti.ServiceAccount,
	)
}
