package gcp

import (
	"context"
	"strings"
	"sync"
)

// Call is one invocation recorded by MockRunner.
type Call struct {
	ProjectID string   // gcloud --project, empty for binaries
	Path      string   // "gcloud" or the binary path
	Args      []string // arguments without --project
}

// Command returns the call as a single space-separated string.
func (c Call) Command() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// MockRunner is a mock implementation of Runner.
type MockRunner struct {
	GcloudFunc func(ctx context.Context, projectID string, args ...string) (string, error)
	BinaryFunc func(ctx context.Context, path string, args ...string) error

	mu    sync.Mutex
	calls []Call
}

// Ensure interface compliance
var _ Runner = (*MockRunner)(nil)

// Gcloud mocks a gcloud invocation.
func (m *MockRunner) Gcloud(ctx context.Context, projectID string, args ...string) (string, error) {
	m.record(Call{ProjectID: projectID, Path: "gcloud", Args: args})
	if m.GcloudFunc != nil {
		return m.GcloudFunc(ctx, projectID, args...)
	}
	return "", nil
}

// Binary mocks an external binary invocation.
func (m *MockRunner) Binary(ctx context.Context, path string, args ...string) error {
	m.record(Call{Path: path, Args: args})
	if m.BinaryFunc != nil {
		return m.BinaryFunc(ctx, path, args...)
	}
	return nil
}

// Calls returns every recorded invocation in order.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Commands returns the recorded invocations as strings.
func (m *MockRunner) Commands() []string {
	var out []string
	for _, c := range m.Calls() {
		out = append(out, c.Command())
	}
	return out
}

func (m *MockRunner) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Args = append([]string(nil), c.Args...)
	m.calls = append(m.calls, c)
}
