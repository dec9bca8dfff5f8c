package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/deployfleet/cmd/deployfleet/handlers"
	"github.com/imamik/deployfleet/internal/config"
)

// Apply returns the command deploying the selected projects.
//
// Environment variables:
//
//	DEPLOYFLEET_STATE_ACCESS_KEY, DEPLOYFLEET_STATE_SECRET_KEY: HMAC keys for --state-bucket
func Apply() *cobra.Command {
	opts := &config.Options{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the projects of the fleet",
		Long: `Create or update the projects declared in the project YAML.

Projects are set up one at a time: the audit logs project first, then the
forseti project, then the remaining projects in declared order. The run stops
at the first failing project. A project that fails during its first
deployment resumes at the failed step on the next run; deployed projects only
re-run their updatable steps.

Examples:
  # Deploy every project
  deployfleet apply -c projects.yaml -g generated_fields.yaml \
    --apply-binary ./apply --apply-forseti-binary ./forseti_installer \
    --rule-generator-binary ./rule_generator \
    --grant-forseti-access-binary ./grant_forseti_access

  # Deploy two projects, printing commands instead of running them
  deployfleet apply -c projects.yaml -g generated_fields.yaml \
    --projects data-one,data-two --dry-run ...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts, logOptions)
		},
	}

	bindConfigFlags(cmd, opts)
	bindMirrorFlags(cmd, &opts.Mirror)

	f := cmd.Flags()
	f.StringVar(&opts.OutputRulesPath, "output-rules-path", "", "Where the rule generator writes the forseti rules (local path or gs://)")
	f.StringVar(&opts.Binaries.Apply, "apply-binary", "", "Binary applying a project's resources")
	f.StringVar(&opts.Binaries.ForsetiInstaller, "apply-forseti-binary", "", "Binary installing forseti")
	f.StringVar(&opts.Binaries.RuleGenerator, "rule-generator-binary", "", "Binary generating the forseti rules")
	f.StringVar(&opts.Binaries.GrantForsetiAccess, "grant-forseti-access-binary", "", "Binary granting the forseti service account access to a project")
	f.BoolVar(&opts.EnableTerraform, "enable-terraform", false, "Deploy resources with terraform instead of deployment manager")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Print the commands instead of running them; generated fields are not written")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "Write step metrics to this node_exporter textfile")
	f.BoolVar(&opts.Interactive, "interactive", true, "Prompt when manual action is required (only on a terminal)")

	_ = cmd.MarkFlagRequired("project-yaml")
	_ = cmd.MarkFlagRequired("generated-fields-path")

	return cmd
}
