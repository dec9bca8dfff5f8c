package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/fleet"
	"github.com/imamik/deployfleet/internal/logging"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
	"github.com/imamik/deployfleet/internal/steps"
)

// Validate loads the configuration and runs the cross-project checks over
// the selected projects without touching any project or the generated fields.
func Validate(ctx context.Context, opts *config.Options, logOpts logging.Options) error {
	logger := newLogger(logOpts)

	if err := opts.Normalize(); err != nil {
		return err
	}

	runner := newRunner(config.LoadTimeouts(), true, logger)
	root, err := loadRootConfig(ctx, opts, runner)
	if err != nil {
		return err
	}

	selection := fleet.ParseSelection(opts.Projects)
	if unknown := selection.Unknown(root); len(unknown) > 0 {
		logger.Info("selected projects are not configured", "projects", unknown)
	}

	store, err := state.Open(ctx, state.NewMemoryBackend(nil))
	if err != nil {
		return err
	}
	contexts := fleet.Assemble(ctx, fleet.AssembleInput{
		Root:      root,
		Store:     store,
		Selection: selection,
		Catalog:   steps.New(runner, nil, opts),
		Observer:  provisioning.NewLogObserver(logger),
	})

	if err := provisioning.ValidateAllowedAPIs(root, contexts); err != nil {
		if isConfigError(err) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		return err
	}

	_, _ = fmt.Fprintf(stdout, "configuration is valid: %d project(s) selected\n", len(contexts))
	for _, pc := range contexts {
		_, _ = fmt.Fprintf(stdout, "  %s (%d steps)\n", pc.ProjectID(), len(pc.Steps))
	}
	return nil
}
