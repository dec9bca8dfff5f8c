package steps

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/prompt"
	"github.com/imamik/deployfleet/internal/provisioning"
)

// Step descriptions, logged at every step boundary.
const (
	DescGetOrCreateProject = "Get or create project"
	DescSetupBilling       = "Set up billing"
	DescEnableAPIs         = "Enable APIs"
	DescComputeImages      = "Deploy compute images"
	DescDeletionLien       = "Create deletion lien"
	DescDeployResources    = "Deploy resources"
	DescMonitoringAccount  = "Create Stackdriver account"
	DescAlerts             = "Create Stackdriver alerts"
	DescProjectFields      = "Generate project fields"
	DescInstallForseti     = "Install Forseti"
	DescGrantForseti       = "Grant Access to Forseti Service account"
)

// Catalog builds the steps bound to their external collaborators.
type Catalog struct {
	Runner    gcp.Runner
	Confirmer prompt.Confirmer
	Options   *config.Options

	// Out receives operator instructions. Defaults to os.Stdout.
	Out io.Writer

	// PollInterval is the wait between monitoring workspace checks.
	PollInterval time.Duration
}

const defaultPollInterval = 10 * time.Second

// New returns a catalog.
func New(runner gcp.Runner, confirmer prompt.Confirmer, opts *config.Options) *Catalog {
	return &Catalog{
		Runner:       runner,
		Confirmer:    confirmer,
		Options:      opts,
		Out:          os.Stdout,
		PollInterval: defaultPollInterval,
	}
}

// Base returns the setup steps every project runs, in order.
func (c *Catalog) Base() []provisioning.Step {
	return []provisioning.Step{
		{Description: DescGetOrCreateProject, Updatable: false, Action: c.getOrCreateProject},
		{Description: DescSetupBilling, Updatable: false, Action: c.setupBilling},
		{Description: DescEnableAPIs, Updatable: true, Action: c.enableAPIs},
		{Description: DescComputeImages, Updatable: true, Action: c.createComputeImages},
		{Description: DescDeletionLien, Updatable: true, Action: c.createDeletionLien},
		{Description: DescDeployResources, Updatable: true, Action: c.deployResources},
		{Description: DescMonitoringAccount, Updatable: true, Action: c.createMonitoringAccount},
		{Description: DescAlerts, Updatable: true, Action: c.createAlerts},
		{Description: DescProjectFields, Updatable: true, Action: c.generateProjectFields},
	}
}

// InstallForseti returns the step installing the fleet-management software.
func (c *Catalog) InstallForseti() provisioning.Step {
	return provisioning.Step{Description: DescInstallForseti, Updatable: false, Action: c.installForseti}
}

// GrantForsetiAccess returns the step granting the forseti service account
// access to projectID.
func (c *Catalog) GrantForsetiAccess(projectID string) provisioning.Step {
	return provisioning.Step{
		Description: DescGrantForseti,
		Updatable:   false,
		Action: func(ctx *provisioning.Context) error {
			return c.grantForsetiAccess(ctx, projectID)
		},
	}
}

// GenerateRules runs the fleet-wide rule generator.
func (c *Catalog) GenerateRules(ctx context.Context) error {
	return c.Runner.Binary(ctx, c.Options.Binaries.RuleGenerator,
		"--project_yaml_path", c.Options.ProjectYAML,
		"--generated_fields_path", c.Options.GeneratedFieldsPath,
		"--output_path", c.Options.OutputRulesPath,
	)
}

func (c *Catalog) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
