package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during setup.
type Observer interface {
	// Printf logs a free-form message.
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through a project's steps
	Progress(project string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured setup event.
type Event struct {
	Type      EventType         // Type of event
	Project   string            // Project id if applicable
	Step      string            // Step description if applicable
	Number    int               // 1-based step number, 0 if not a step event
	Total     int               // Number of steps in the project's list
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Err       error             // Failure cause for *.failed events
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of setup event.
type EventType string

const (
	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step.failed"
	// EventStepSkipped indicates a non-updatable step was skipped on a deployed project.
	EventStepSkipped EventType = "step.skipped"

	// EventProjectCompleted indicates all steps of a project succeeded.
	EventProjectCompleted EventType = "project.completed"
	// EventProjectFailed indicates a project's setup stopped at a failed step.
	EventProjectFailed EventType = "project.failed"

	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists.
	EventResourceExists EventType = "resource.exists"

	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventProgress indicates progress through a project's steps.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that writes to logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *LogObserver) Printf(format string, v ...any) {
	o.logger.Info(fmt.Sprintf(format, v...), o.contextKeysAndValues()...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Project != "" {
		kv = append(kv, "project", event.Project)
	}
	if event.Number > 0 {
		kv = append(kv, "step", event.Number, "total", event.Total)
	}
	if event.Step != "" {
		kv = append(kv, "description", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, sortedKeysAndValues(event.Fields)...)
	kv = append(kv, o.contextKeysAndValues()...)

	switch event.Type {
	case EventStepFailed, EventProjectFailed, EventValidationError:
		o.logger.Error(event.Err, event.Message, kv...)
	case EventProgress:
		o.logger.V(1).Info(event.Message, kv...)
	default:
		o.logger.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(project string, current, total int) {
	o.Event(Event{
		Type:    EventProgress,
		Project: project,
		Message: "progress",
		Fields: map[string]string{
			"current": fmt.Sprintf("%d", current),
			"total":   fmt.Sprintf("%d", total),
		},
	})
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &LogObserver{logger: o.logger, contextFields: newFields}
}

func (o *LogObserver) contextKeysAndValues() []any {
	return sortedKeysAndValues(o.contextFields)
}

func sortedKeysAndValues(fields map[string]string) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, project string, number, total int, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Project: project,
		Step:    step,
		Number:  number,
		Total:   total,
		Message: "starting step",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, project string, number, total int, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Project: project,
		Step:    step,
		Number:  number,
		Total:   total,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepSkipped logs that a non-updatable step was skipped.
func LogStepSkipped(observer Observer, project string, number, total int, step string) {
	observer.Event(Event{
		Type:    EventStepSkipped,
		Project: project,
		Step:    step,
		Number:  number,
		Total:   total,
		Message: "step is not updatable, skipping",
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, project string, number, total int, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Project: project,
		Step:    step,
		Number:  number,
		Total:   total,
		Err:     err,
		Message: fmt.Sprintf("setup failed on step %d", number),
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, project, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Project:  project,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields:   map[string]string{"type": resourceType},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, project, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Project:  project,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields:   map[string]string{"type": resourceType},
	})
}
