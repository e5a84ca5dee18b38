package memory

import (
	"context"
	"sync"

	"github.com/aretw0/seedbed/pkg/domain"
)

// Store implements ports.RecordStore in memory.
// Safe for concurrent use, so parallel scenarios can share one instance.
type Store[ID comparable] struct {
	data map[ID]any
	mu   sync.RWMutex
}

// NewStore creates a new in-memory record store.
func NewStore[ID comparable]() *Store[ID] {
	return &Store[ID]{
		data: make(map[ID]any),
	}
}

// Put persists the record value in memory.
func (s *Store[ID]) Put(ctx context.Context, id ID, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = value
	return nil
}

// Get retrieves the record value from memory.
func (s *Store[ID]) Get(ctx context.Context, id ID) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return value, nil
}

// Delete removes the record. Missing records are ignored.
func (s *Store[ID]) Delete(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the IDs of all stored records.
func (s *Store[ID]) List(ctx context.Context) ([]ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]ID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
