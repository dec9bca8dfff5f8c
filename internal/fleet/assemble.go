package fleet

import (
	"context"
	"slices"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
)

// StepCatalog supplies the steps a project runs.
type StepCatalog interface {
	// Base returns the setup steps shared by every project.
	Base() []provisioning.Step
	InstallForseti() provisioning.Step
	GrantForsetiAccess(projectID string) provisioning.Step
}

// AssembleInput collects what Assemble needs to build the contexts.
type AssembleInput struct {
	Root      *config.RootConfig
	Store     *state.Store
	Selection Selection
	Catalog   StepCatalog
	Observer  provisioning.Observer
	Metrics   *provisioning.Metrics
}

// Assemble returns the setup contexts of the selected projects in
// deployment order:
//
//  1. the audit-logs project, with the base steps only
//  2. the forseti project, which installs forseti, grants it access to
//     itself and, when present, to the audit-logs project
//  3. the ordinary projects in declared order, each granting forseti
//     access when a forseti project is configured, selected or not
func Assemble(ctx context.Context, in AssembleInput) []*provisioning.Context {
	root := in.Root
	var contexts []*provisioning.Context

	add := func(p *config.ProjectDefinition, auditLogs *config.ProjectDefinition, extra ...provisioning.Step) {
		observer := in.Observer.WithFields(map[string]string{"project": p.ProjectID})
		pc := provisioning.NewContext(ctx, root, p, in.Store, observer)
		pc.AuditLogs = auditLogs
		pc.Metrics = in.Metrics
		pc.Steps = append(slices.Clone(in.Catalog.Base()), extra...)
		contexts = append(contexts, pc)
	}

	if in.Selection.Wants(root.AuditLogsProject) {
		add(root.AuditLogsProject, nil)
	}

	forseti := root.ForsetiProject()
	if in.Selection.Wants(forseti) {
		extra := []provisioning.Step{
			in.Catalog.InstallForseti(),
			in.Catalog.GrantForsetiAccess(forseti.ProjectID),
		}
		if root.AuditLogsProject != nil {
			extra = append(extra, in.Catalog.GrantForsetiAccess(root.AuditLogsProject.ProjectID))
		}
		add(forseti, root.AuditLogsProject, extra...)
	}

	for _, p := range root.Projects {
		if !in.Selection.Wants(p) {
			continue
		}
		var extra []provisioning.Step
		if forseti != nil {
			extra = append(extra, in.Catalog.GrantForsetiAccess(p.ProjectID))
		}
		add(p, root.AuditLogsProject, extra...)
	}

	return contexts
}
