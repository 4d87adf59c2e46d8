package partner

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	apps []Application
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, a *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = append(s.apps, *a)
	return nil
}

func (s *MemoryStore) List(context.Context) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Application{}, s.apps...), nil
}
