package identity

import (
	"context"
	"sync"

	"bookit/internal/apperror"
)

type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Identity
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Identity),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, id *Identity) error {
	email := NormalizeEmail(id.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return apperror.Conflict("EMAIL_TAKEN", "email already registered")
	}
	if _, ok := s.byID[id.ID]; ok {
		return apperror.Conflict("IDENTITY_EXISTS", "identity id already exists")
	}
	cp := *id
	cp.Email = email
	s.byID[cp.ID] = &cp
	s.byEmail[email] = cp.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}
