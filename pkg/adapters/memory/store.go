package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Store implements ports.ModelStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*model.Model
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*model.Model),
	}
}

// Save keeps a deep copy of m.
func (s *Store) Save(ctx context.Context, m *model.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	copied := m.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[m.Name] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored tree.
func (s *Store) Load(ctx context.Context, name string) (*model.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.data[name]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return m.Clone(), nil
}

// Delete removes the model.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored model names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
