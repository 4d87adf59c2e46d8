package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookit/internal/apperror"
	"bookit/internal/audit"
)

// MemoryStore serializes writes under one mutex, which gives Transition its
// compare-and-swap semantics and makes the capacity check atomic with Insert.
// Audit entries go to journal while the mutex is held and before the booking
// changes, so a failed write leaves the booking untouched.
type MemoryStore struct {
	mu      sync.RWMutex
	seq     int64
	order   []*Booking
	byID    map[string]*Booking
	journal audit.Store
}

// NewMemoryStore records audit entries into journal; a nil journal drops them.
func NewMemoryStore(journal audit.Store) *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Booking), journal: journal}
}

func (s *MemoryStore) write(ctx context.Context, entries []audit.Entry) error {
	if s.journal == nil {
		return nil
	}
	for _, e := range entries {
		if err := s.journal.Record(ctx, e); err != nil {
			return fmt.Errorf("record %s for %s: %w", e.Action, e.BookingID, err)
		}
	}
	return nil
}

func (s *MemoryStore) Insert(ctx context.Context, b *Booking, capacity int, entries ...audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[b.ID]; ok {
		return apperror.Conflict("BOOKING_EXISTS", "booking id already exists")
	}
	if capacity > 0 {
		held := 0
		for _, existing := range s.order {
			if existing.EventID == b.EventID && existing.Status != StatusRejected {
				held += existing.NumberOfAttendees
			}
		}
		if held+b.NumberOfAttendees > capacity {
			return ErrCapacityExceeded
		}
	}

	if err := s.write(ctx, entries); err != nil {
		return err
	}

	s.seq++
	b.Seq = s.seq
	cp := *b
	s.order = append(s.order, &cp)
	s.byID[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) Transition(ctx context.Context, id string, to Status, actorID string, at time.Time, entry audit.Entry) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("booking %s is %s: %w", id, b.Status, apperror.ErrInvalidStateTransition)
	}
	if err := s.write(ctx, []audit.Entry{entry}); err != nil {
		return nil, err
	}
	b.Status = to
	b.DecidedBy = actorID
	b.UpdatedAt = at
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Booking{}
	for _, b := range s.order {
		if f.Match(b) {
			out = append(out, *b)
		}
	}
	return out, nil
}
