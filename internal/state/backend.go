package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotExist is returned by Backend.Read when no state has been written yet.
var ErrNotExist = errors.New("generated fields do not exist")

// Backend reads and writes the serialized generated fields.
type Backend interface {
	// Read returns the stored document, or ErrNotExist.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
}

// MemoryBackend keeps the document in memory. Used for dry runs and tests.
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	exists bool

	// WriteErr, when set, is returned by every Write.
	WriteErr error
	// Writes counts successful writes.
	Writes int
}

// NewMemoryBackend returns a backend seeded with data. A nil seed means no
// prior state.
func NewMemoryBackend(seed []byte) *MemoryBackend {
	return &MemoryBackend{data: seed, exists: seed != nil}
}

// Read implements Backend.
func (m *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

// Write implements Backend.
func (m *MemoryBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data = append([]byte(nil), data...)
	m.exists = true
	m.Writes++
	return nil
}

// Bytes returns the last written document.
func (m *MemoryBackend) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// MirrorBackend writes every document to a primary and a replica backend.
// Reads prefer the primary and fall back to the replica when the primary
// holds no state, which restores a lost local file from the mirror.
type MirrorBackend struct {
	Primary Backend
	Replica Backend
}

// Read implements Backend.
func (m *MirrorBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := m.Primary.Read(ctx)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotExist) {
		return nil, err
	}
	data, rerr := m.Replica.Read(ctx)
	if rerr != nil {
		if errors.Is(rerr, ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read replica: %w", rerr)
	}
	return data, nil
}

// Write implements Backend. The primary is written first; a replica failure
// is reported even though the primary already holds the new document.
func (m *MirrorBackend) Write(ctx context.Context, data []byte) error {
	if err := m.Primary.Write(ctx, data); err != nil {
		return err
	}
	if err := m.Replica.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write replica: %w", err)
	}
	return nil
}
