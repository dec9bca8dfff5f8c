package provisioning

import (
	"context"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/state"
)

// Context wraps everything a step needs to set up one project.
type Context struct {
	context.Context

	Root    *config.RootConfig
	Project *config.ProjectDefinition

	// AuditLogs is the shared audit-logs project, or nil when the project
	// keeps its logs locally.
	AuditLogs *config.ProjectDefinition

	// Steps is the full ordered list: the base steps followed by extras.
	Steps []Step

	Store    *state.Store
	Observer Observer
	Metrics  *Metrics // optional
}

// NewContext creates a setup context for project.
func NewContext(
	ctx context.Context,
	root *config.RootConfig,
	project *config.ProjectDefinition,
	store *state.Store,
	observer Observer,
) *Context {
	return &Context{
		Context:  ctx,
		Root:     root,
		Project:  project,
		Store:    store,
		Observer: observer,
	}
}

// ProjectID returns the id of the project being set up.
func (c *Context) ProjectID() string {
	return c.Project.ProjectID
}

// Fields returns the project's live generated fields entry, creating it if
// absent. Mutations are persisted after the current step succeeds.
func (c *Context) Fields() *state.ProjectFields {
	return c.Store.Entry(c.ProjectID())
}

// UpdateFields applies fn to the project's entry and persists immediately.
func (c *Context) UpdateFields(fn func(*state.ProjectFields)) error {
	return c.Store.Update(c, c.ProjectID(), fn)
}
