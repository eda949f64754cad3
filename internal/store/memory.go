package store

import (
	"context"
	"sync"

	"patient-records/internal/models"
)

// MemoryStore holds the collection in process memory. Load and Save copy,
// so callers never share a map with the store.
type MemoryStore struct {
	mutex sync.RWMutex
	data  models.Collection
}

func NewMemoryStore(initial models.Collection) *MemoryStore {
	if initial == nil {
		initial = models.Collection{}
	}
	return &MemoryStore{data: initial.Clone()}
}

func (s *MemoryStore) Load(_ context.Context) (models.Collection, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, c models.Collection) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = c.Clone()
	return nil
}
