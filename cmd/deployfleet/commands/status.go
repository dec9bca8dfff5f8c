package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/deployfleet/cmd/deployfleet/handlers"
	"github.com/imamik/deployfleet/internal/config"
)

// Status returns the command reporting the deployment status of projects.
func Status() *cobra.Command {
	opts := &config.Options{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the deployment status of each project",
		Long: `Read the generated fields and report, per project, whether it is
deployed, stopped at a failed step or not deployed yet.

With --project-yaml every configured project is listed, otherwise every
project recorded in the generated fields.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), opts, logOptions)
		},
	}

	bindConfigFlags(cmd, opts)
	bindMirrorFlags(cmd, &opts.Mirror)
	_ = cmd.MarkFlagRequired("generated-fields-path")

	return cmd
}
