// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/deployfleet/internal/logging"
)

// logOptions is bound to the persistent logging flags of the root command.
var logOptions logging.Options

// Root returns the root command for the deployfleet CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deployfleet",
		Short:         "Provision and update a fleet of Google Cloud projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().IntVarP(&logOptions.Verbosity, "verbosity", "v", 0, "Log verbosity (0 = info, 1 = progress, 2 = commands)")
	cmd.PersistentFlags().BoolVar(&logOptions.JSON, "log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(Apply())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Status())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
