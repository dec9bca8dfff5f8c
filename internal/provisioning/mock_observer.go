package provisioning

import (
	"fmt"
	"sync"
)

// MockObserver is an Observer that records events for tests.
// Children created by WithFields share the parent's recording.
type MockObserver struct {
	rec    *recording
	fields map[string]string
}

type recording struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

// NewMockObserver returns an empty recording observer.
func NewMockObserver() *MockObserver {
	return &MockObserver{rec: &recording{}, fields: map[string]string{}}
}

// Printf implements Observer.
func (m *MockObserver) Printf(format string, v ...any) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = append(m.rec.messages, fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (m *MockObserver) Event(event Event) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.events = append(m.rec.events, event)
}

// Progress implements Observer.
func (m *MockObserver) Progress(project string, current, total int) {
	m.Event(Event{
		Type:    EventProgress,
		Project: project,
		Number:  current,
		Total:   total,
	})
}

// WithFields implements Observer.
func (m *MockObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MockObserver{rec: m.rec, fields: merged}
}

// Fields returns the context fields of this observer.
func (m *MockObserver) Fields() map[string]string {
	return m.fields
}

// Events returns all recorded events.
func (m *MockObserver) Events() []Event {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]Event(nil), m.rec.events...)
}

// EventsOfType returns the recorded events of type t.
func (m *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns all Printf messages.
func (m *MockObserver) Messages() []string {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]string(nil), m.rec.messages...)
}
