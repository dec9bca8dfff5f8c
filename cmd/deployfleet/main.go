// Package main is the entry point for the deployfleet CLI.
//
// deployfleet provisions and updates a fleet of Google Cloud projects from a
// declarative YAML configuration. Each project runs an ordered list of setup
// steps; progress is recorded in a generated fields file so that a failed
// first deployment resumes at the step that failed.
//
// Commands: apply, validate, status.
//
// For detailed usage information, run:
//
//	deployfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/deployfleet/cmd/deployfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
