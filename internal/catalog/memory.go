package catalog

import (
	"context"
	"sync"

	"bookit/internal/apperror"
)

// MemoryStore keeps listings in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	venues []Venue
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListVenues(context.Context) ([]Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Venue, len(s.venues))
	for i, v := range s.venues {
		out[i] = copyVenue(v)
	}
	return out, nil
}

func (s *MemoryStore) GetVenue(_ context.Context, id string) (*Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.venues {
		if v.ID == id {
			cp := copyVenue(v)
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (s *MemoryStore) CreateVenue(_ context.Context, v *Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.venues {
		if existing.ID == v.ID {
			return apperror.Conflict("VENUE_EXISTS", "venue id already exists")
		}
	}
	s.venues = append(s.venues, copyVenue(*v))
	return nil
}

func (s *MemoryStore) ListEvents(context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...), nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (s *MemoryStore) CreateEvent(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.events {
		if existing.ID == e.ID {
			return apperror.Conflict("EVENT_EXISTS", "event id already exists")
		}
	}
	s.events = append(s.events, *e)
	return nil
}

func copyVenue(v Venue) Venue {
	v.Amenities = append([]string(nil), v.Amenities...)
	return v
}
