// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package and
// can be tested without the CLI framework. External collaborators are created
// through package-level factory variables that tests replace.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/fleet"
	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/logging"
	"github.com/imamik/deployfleet/internal/platform/s3"
	"github.com/imamik/deployfleet/internal/prompt"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
	"github.com/imamik/deployfleet/internal/steps"
	"github.com/imamik/deployfleet/internal/ui"
	"github.com/imamik/deployfleet/internal/util/prerequisites"
)

// Runner is the external command runner used by a run.
// It matches gcp.CLIRunner.
type Runner interface {
	gcp.Runner
	BinaryOutput(ctx context.Context, path string, args ...string) (string, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newLogger builds the process logger.
	newLogger = logging.New

	// newRunner creates the gcloud and binary runner.
	newRunner = func(timeouts *config.Timeouts, dryRun bool, logger logr.Logger) Runner {
		return gcp.NewCLIRunner(timeouts, dryRun, logger)
	}

	// newConfirmer picks the operator prompt.
	newConfirmer = prompt.Default

	// checkTools looks up the required programs.
	checkTools = prerequisites.Check

	// loadConfigFile loads the project YAML directly.
	loadConfigFile = config.LoadFile

	// newS3Client creates the client of the generated fields mirror.
	newS3Client = s3.NewClient

	// lookupEnv reads environment variables.
	lookupEnv = os.LookupEnv

	// stdout receives summaries and tables.
	stdout io.Writer = os.Stdout

	// styledOutput reports whether stdout should be styled.
	styledOutput = func() bool { return prompt.IsTTY(os.Stdout) }
)

// Apply deploys the selected projects.
//
// The run:
//  1. normalizes and validates the options and checks the required tools
//  2. loads the project configuration
//  3. opens the generated fields (mirrored to a bucket when configured,
//     in memory for dry runs) under a lock file
//  4. sets up the selected projects in order, stopping at the first failure
//  5. prints the summary and writes the metrics textfile
func Apply(ctx context.Context, opts *config.Options, logOpts logging.Options) error {
	logger := newLogger(logOpts)

	if err := opts.Normalize(); err != nil {
		return err
	}
	mirrorCredentialsFromEnv(&opts.Mirror)
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := checkPrerequisites(opts); err != nil {
		return err
	}

	runner := newRunner(config.LoadTimeouts(), opts.DryRun, logger)

	root, err := loadRootConfig(ctx, opts, runner)
	if err != nil {
		return err
	}

	selection := fleet.ParseSelection(opts.Projects)
	if unknown := selection.Unknown(root); len(unknown) > 0 {
		logger.Info("selected projects are not configured, ignoring them", "projects", unknown)
	}

	backend, err := openBackend(ctx, opts, logger)
	if err != nil {
		return err
	}

	if !opts.DryRun {
		lock := state.NewLock(opts.GeneratedFieldsPath)
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Error(err, "failed to release lock", "path", lock.Path())
			}
		}()
	}

	store, err := state.Open(ctx, backend)
	if err != nil {
		return err
	}

	catalog := steps.New(runner, newConfirmer(opts.Interactive), opts)
	metrics := provisioning.NewMetrics()
	deployer := &fleet.Deployer{
		Root:        root,
		Store:       store,
		Selection:   selection,
		Catalog:     catalog,
		Observer:    provisioning.NewLogObserver(logger),
		Metrics:     metrics,
		PostProcess: catalog.GenerateRules,
	}

	report, runErr := deployer.Run(ctx)
	if report != nil {
		_, _ = fmt.Fprint(stdout, ui.RenderSummary(report, styledOutput()))
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Error(err, "failed to write metrics", "path", opts.MetricsFile)
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("all selected projects are set up", "projects", len(report.Projects))
	return nil
}

// checkPrerequisites verifies gcloud and every configured binary.
func checkPrerequisites(opts *config.Options) error {
	tools := []prerequisites.Tool{
		prerequisites.Gcloud(),
		prerequisites.Binary("--apply-binary", opts.Binaries.Apply),
		prerequisites.Binary("--apply-forseti-binary", opts.Binaries.ForsetiInstaller),
		prerequisites.Binary("--rule-generator-binary", opts.Binaries.RuleGenerator),
		prerequisites.Binary("--grant-forseti-access-binary", opts.Binaries.GrantForsetiAccess),
	}
	if opts.Binaries.LoadConfig != "" {
		tools = append(tools, prerequisites.Binary("--load-config-binary", opts.Binaries.LoadConfig))
	}
	if err := checkTools(tools).Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}

// mirrorCredentialsFromEnv fills the mirror keys from the environment.
func mirrorCredentialsFromEnv(m *config.StateMirror) {
	if v, ok := lookupEnv("DEPLOYFLEET_STATE_ACCESS_KEY"); ok && m.AccessKey == "" {
		m.AccessKey = v
	}
	if v, ok := lookupEnv("DEPLOYFLEET_STATE_SECRET_KEY"); ok && m.SecretKey == "" {
		m.SecretKey = v
	}
}

// isConfigError reports whether err is a configuration problem.
func isConfigError(err error) bool {
	return errors.Is(err, config.ErrInvalidConfig)
}
