package fleet

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
)

// Outcome is the result of one project in a run.
type Outcome string

// Project outcomes.
const (
	OutcomeSucceeded    Outcome = "succeeded"
	OutcomeFailed       Outcome = "failed"
	OutcomeNotAttempted Outcome = "not_attempted"
)

// ProjectResult records the outcome of one assembled project.
type ProjectResult struct {
	ID      string
	Outcome Outcome
}

// Report summarizes a run.
type Report struct {
	Projects []ProjectResult

	// PostProcessed is true when the rule generator ran successfully.
	PostProcessed bool
}

// Failed returns the id of the failed project, if any.
func (r *Report) Failed() (string, bool) {
	for _, p := range r.Projects {
		if p.Outcome == OutcomeFailed {
			return p.ID, true
		}
	}
	return "", false
}

// Count returns the number of projects with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, p := range r.Projects {
		if p.Outcome == o {
			n++
		}
	}
	return n
}

// ProjectFailedError is returned when a project's setup stopped at a failed
// step. Remaining projects were not attempted.
type ProjectFailedError struct {
	ProjectID string
}

func (e *ProjectFailedError) Error() string {
	return fmt.Sprintf("failed to set up project %s", e.ProjectID)
}

// Deployer runs the setup of the selected projects.
type Deployer struct {
	Root      *config.RootConfig
	Store     *state.Store
	Selection Selection
	Catalog   StepCatalog
	Observer  provisioning.Observer
	Metrics   *provisioning.Metrics // optional

	// PostProcess runs once after every project succeeded, if a forseti
	// project is configured. Its outcome is not checkpointed.
	PostProcess func(ctx context.Context) error
}

// Run assembles, validates and sets up the selected projects in order.
//
// Validation failures abort the run before any step executes. Setup halts at
// the first failed project with a *ProjectFailedError; a failure to persist
// the generated fields is returned as is. The report is non-nil whenever
// assembly happened.
func (d *Deployer) Run(ctx context.Context) (*Report, error) {
	contexts := Assemble(ctx, AssembleInput{
		Root:      d.Root,
		Store:     d.Store,
		Selection: d.Selection,
		Catalog:   d.Catalog,
		Observer:  d.Observer,
		Metrics:   d.Metrics,
	})

	report := &Report{Projects: make([]ProjectResult, len(contexts))}
	for i, pc := range contexts {
		report.Projects[i] = ProjectResult{ID: pc.ProjectID(), Outcome: OutcomeNotAttempted}
	}

	if err := provisioning.ValidateAllowedAPIs(d.Root, contexts); err != nil {
		d.reportValidation(err)
		return report, err
	}

	if len(contexts) == 0 {
		d.Observer.Printf("no configured project matches the selection")
	}

	for i, pc := range contexts {
		ok, err := provisioning.Setup(pc)
		if err != nil {
			report.Projects[i].Outcome = OutcomeFailed
			return report, err
		}
		if !ok {
			report.Projects[i].Outcome = OutcomeFailed
			d.Observer.Event(provisioning.Event{
				Type:    provisioning.EventProjectFailed,
				Project: pc.ProjectID(),
				Message: "setup stopped, remaining projects not attempted",
			})
			return report, &ProjectFailedError{ProjectID: pc.ProjectID()}
		}
		report.Projects[i].Outcome = OutcomeSucceeded
	}

	if d.Root.HasForseti() && d.PostProcess != nil {
		d.Observer.Printf("generating forseti rules")
		if err := d.PostProcess(ctx); err != nil {
			return report, fmt.Errorf("failed to generate forseti rules: %w", err)
		}
		report.PostProcessed = true
	}

	d.Observer.Printf("setup completed for %d project(s)", report.Count(OutcomeSucceeded))
	return report, nil
}

func (d *Deployer) reportValidation(err error) {
	var disallowed *provisioning.DisallowedAPIsError
	if !errors.As(err, &disallowed) {
		return
	}
	for _, ve := range disallowed.ValidationErrors() {
		d.Observer.Event(provisioning.Event{
			Type:    provisioning.EventValidationError,
			Message: ve.Message,
			Err:     ve,
			Fields:  map[string]string{"field": ve.Field},
		})
	}
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
