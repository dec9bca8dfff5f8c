package provisioning

import "fmt"

// StepFunc is the action of a step. A nil error means success; a non-nil
// error is the failure diagnostic.
type StepFunc func(ctx *Context) error

// Step is one unit of a project's setup.
type Step struct {
	// Description is logged at every step boundary.
	Description string

	// Updatable steps are re-run on already deployed projects and must be
	// idempotent. All other steps run only during the first deployment.
	Updatable bool

	Action StepFunc
}

// Run executes the step's action.
func (s Step) Run(ctx *Context) error {
	if s.Action == nil {
		return fmt.Errorf("step %q has no action", s.Description)
	}
	return s.Action(ctx)
}
