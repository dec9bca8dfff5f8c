package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrPersist wraps every failure to write the store. It is fatal to a run:
// continuing would lose the resume checkpoint.
var ErrPersist = errors.New("failed to persist generated fields")

// Store is the in-memory generated fields, bound to a backend.
type Store struct {
	mu      sync.Mutex
	backend Backend
	doc     document
}

// Open loads the store from backend. A backend without prior state yields
// an empty store.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	s := &Store{backend: backend}

	data, err := backend.Read(ctx)
	if err != nil && !errors.Is(err, ErrNotExist) {
		return nil, fmt.Errorf("failed to load generated fields: %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("failed to parse generated fields: %w", err)
		}
	}
	if s.doc.Projects == nil {
		s.doc.Projects = make(map[string]*ProjectFields)
	}
	for id, f := range s.doc.Projects {
		if f == nil {
			s.doc.Projects[id] = &ProjectFields{}
		}
	}
	return s, nil
}

// Lookup returns the entry for id and whether one exists.
// An existing entry means setup of the project was attempted before.
func (s *Store) Lookup(id string) (*ProjectFields, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.doc.Projects[id]
	return f, ok
}

// Entry returns the entry for id, creating an empty one if absent.
func (s *Store) Entry(id string) *ProjectFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.doc.Projects[id]
	if !ok {
		f = &ProjectFields{}
		s.doc.Projects[id] = f
	}
	return f
}

// Update applies fn to the entry for id (created if absent) and persists.
func (s *Store) Update(ctx context.Context, id string, fn func(*ProjectFields)) error {
	fn(s.Entry(id))
	return s.Persist(ctx)
}

// Forseti returns the fleet-management outputs, or nil if none are recorded.
func (s *Store) Forseti() *ForsetiFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Forseti
}

// SetForseti records the fleet-management outputs, keeping unknown keys
// already stored. They are written on the next Persist.
func (s *Store) SetForseti(f ForsetiFields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Forseti != nil && f.Extra == nil {
		f.Extra = s.doc.Forseti.Extra
	}
	s.doc.Forseti = &f
}

// ProjectIDs returns the ids of all recorded projects, sorted.
func (s *Store) ProjectIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.doc.Projects))
	for id := range s.doc.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Marshal returns the serialized document.
func (s *Store) Marshal() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&s.doc); err != nil {
		return nil, fmt.Errorf("failed to encode generated fields: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode generated fields: %w", err)
	}
	return buf.Bytes(), nil
}

// Persist writes the whole document to the backend.
func (s *Store) Persist(ctx context.Context) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
