package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/deployfleet/cmd/deployfleet/handlers"
	"github.com/imamik/deployfleet/internal/config"
)

// Validate returns the command checking the configuration without deploying.
func Validate() *cobra.Command {
	opts := &config.Options{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the project configuration",
		Long: `Load the project YAML, check it against the configuration schema and
run the cross-project checks (API allowlist) over the selected projects.
Nothing is created or written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), opts, logOptions)
		},
	}

	bindConfigFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("project-yaml")

	return cmd
}
