package provisioning

import (
	"time"

	"github.com/imamik/deployfleet/internal/state"
)

// Setup runs the project's step list to completion or to the first failed
// step, resuming a first deployment at its checkpoint.
//
// A project counts as deployed when its generated fields entry exists and
// carries no failed step. Deployed projects only run updatable steps and
// never record a checkpoint on failure; first deployments record the number
// of the failed step and resume there on the next run.
//
// The boolean reports success. The error is non-nil only when the store
// could not be persisted (state.ErrPersist), which must abort the run.
func Setup(ctx *Context) (bool, error) {
	id := ctx.ProjectID()
	steps := ctx.Steps
	total := len(steps)

	entry, exists := ctx.Store.Lookup(id)
	deployed := exists && entry.Deployed()
	if !exists {
		entry = ctx.Store.Entry(id)
	}

	start := 1
	if entry.FailedStep > 0 {
		start = entry.FailedStep
	}

	if deployed {
		ctx.Observer.Printf("%s: project already deployed, running updatable steps only", id)
	} else if start > 1 {
		ctx.Observer.Printf("%s: resuming setup at step %d/%d", id, start, total)
	}

	for num := start; num <= total; num++ {
		step := steps[num-1]

		if deployed && !step.Updatable {
			LogStepSkipped(ctx.Observer, id, num, total, step.Description)
			ctx.Metrics.ObserveStep(id, step.Description, ResultSkipped, 0)
			continue
		}

		LogStepStart(ctx.Observer, id, num, total, step.Description)
		ctx.Observer.Progress(id, num, total)
		stepStart := time.Now()

		if err := step.Run(ctx); err != nil {
			LogStepFailed(ctx.Observer, id, num, total, step.Description, err)
			ctx.Metrics.ObserveStep(id, step.Description, ResultFailed, time.Since(stepStart))
			ctx.Metrics.ObserveProject(ResultFailed)

			// An update can always start over from the beginning.
			if !deployed {
				if perr := ctx.UpdateFields(func(f *state.ProjectFields) { f.Checkpoint(num) }); perr != nil {
					return false, perr
				}
				ctx.Observer.Printf("%s: failure recorded at step %d; correct the issue and re-run", id, num)
			}
			return false, nil
		}

		if err := ctx.Store.Persist(ctx); err != nil {
			return false, err
		}
		LogStepComplete(ctx.Observer, id, num, total, step.Description, time.Since(stepStart))
		ctx.Metrics.ObserveStep(id, step.Description, ResultSucceeded, time.Since(stepStart))
	}

	if err := ctx.UpdateFields(func(f *state.ProjectFields) { f.ClearCheckpoint() }); err != nil {
		return false, err
	}
	ctx.Observer.Event(Event{
		Type:    EventProjectCompleted,
		Project: id,
		Total:   total,
		Message: "setup completed successfully",
	})
	ctx.Metrics.ObserveProject(ResultSucceeded)
	return true, nil
}
