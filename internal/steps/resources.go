package steps

import (
	"strconv"

	"github.com/imamik/deployfleet/internal/provisioning"
)

// deployResources applies the project's resource templates with the
// external apply binary.
func (c *Catalog) deployResources(ctx *provisioning.Context) error {
	return c.Runner.Binary(ctx, c.Options.Binaries.Apply,
		"--project_yaml_path", c.Options.ProjectYAML,
		"--generated_fields_path", c.Options.GeneratedFieldsPath,
		"--project", ctx.ProjectID(),
		"--enable_terraform="+strconv.FormatBool(c.Options.EnableTerraform),
	)
}
