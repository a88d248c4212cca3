package batchalloc

import (
	"context"
	"sync"

	"galen/internal/core/batch"
)

// MemoryCounterStore is a CounterStore kept in process memory. Used in
// tests and local development; production uses the Postgres store.
type MemoryCounterStore struct {
	mu   sync.RWMutex
	last map[batch.Category]batch.Code
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		last: make(map[batch.Category]batch.Code),
	}
}

// GetLastIssued implements CounterStore.
func (s *MemoryCounterStore) GetLastIssued(_ context.Context, category batch.Category) (batch.Code, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.last[category]
	return code, ok, nil
}

// Advance implements CounterStore.
func (s *MemoryCounterStore) Advance(_ context.Context, category batch.Category, issued batch.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[category] = issued
	return nil
}
