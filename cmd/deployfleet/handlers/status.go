package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/fleet"
	"github.com/imamik/deployfleet/internal/logging"
	"github.com/imamik/deployfleet/internal/state"
	"github.com/imamik/deployfleet/internal/ui"
)

// Status prints the deployment status of the selected projects.
func Status(ctx context.Context, opts *config.Options, logOpts logging.Options) error {
	logger := newLogger(logOpts)

	if err := opts.Normalize(); err != nil {
		return err
	}
	mirrorCredentialsFromEnv(&opts.Mirror)

	// Status never writes, so the dry-run backend is enough.
	readOpts := *opts
	readOpts.DryRun = true
	backend, err := openBackend(ctx, &readOpts, logger.V(1))
	if err != nil {
		return err
	}
	store, err := state.Open(ctx, backend)
	if err != nil {
		return err
	}

	ids, filtered, err := statusIDs(ctx, opts, store, logger)
	if err != nil {
		return err
	}

	var rows []ui.StatusRow
	switch {
	case !filtered:
		rows = ui.StatusOf(store, nil)
	case len(ids) > 0:
		rows = ui.StatusOf(store, ids)
	}
	_, _ = fmt.Fprint(stdout, ui.RenderStatus(rows, styledOutput()))
	return nil
}

// statusIDs returns the projects to report. With a project YAML these are
// the selected configured projects; otherwise the selected recorded ones.
// filtered is false when every recorded project should be listed.
func statusIDs(ctx context.Context, opts *config.Options, store *state.Store, logger logr.Logger) ([]string, bool, error) {
	selection := fleet.ParseSelection(opts.Projects)

	if opts.ProjectYAML == "" {
		if selection.All() {
			return nil, false, nil
		}
		var ids []string
		for _, id := range store.ProjectIDs() {
			if selection.Wants(&config.ProjectDefinition{ProjectID: id}) {
				ids = append(ids, id)
			}
		}
		return ids, true, nil
	}

	root, err := loadRootConfig(ctx, opts, newRunner(config.LoadTimeouts(), true, logger))
	if err != nil {
		return nil, false, err
	}
	var ids []string
	for _, p := range root.AllProjects() {
		if selection.Wants(p) {
			ids = append(ids, p.ProjectID)
		}
	}
	return ids, true, nil
}
