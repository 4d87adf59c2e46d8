// Package booking owns booking requests and their review lifecycle:
// a booker creates a pending request and an admin approves or rejects it.
package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bookit/internal/audit"
)

type Booking struct {
	ID                string          `json:"id"`
	EventID           string          `json:"eventId"`
	UserID            string          `json:"userId"`
	NumberOfAttendees int             `json:"numberOfAttendees"`
	Status            Status          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	Package           Package         `json:"package"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	DecidedBy         string          `json:"decidedBy,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	// Seq is the store's insertion order; it breaks CreatedAt ties.
	Seq int64 `json:"-"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	UserID  string
	EventID string
	Status  Status
}

func (f Filter) Match(b *Booking) bool {
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	if f.EventID != "" && b.EventID != f.EventID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// Store persists bookings.
//
// Insert checks capacity and inserts atomically per event: with capacity > 0
// it fails with ErrCapacityExceeded when pending+approved attendees of the
// event plus the new booking would exceed it.
//
// Transition is a compare-and-swap on status: it applies to only when
// CanTransition(current, to), otherwise it fails with
// apperror.ErrInvalidStateTransition and leaves the booking untouched.
//
// Insert and Transition write their audit entries in the same unit of work as
// the booking change: if an entry cannot be written the booking is left as it
// was and the error is returned.
//
// List returns matches in insertion order.
type Store interface {
	Insert(ctx context.Context, b *Booking, capacity int, entries ...audit.Entry) error
	Get(ctx context.Context, id string) (*Booking, error)
	Transition(ctx context.Context, id string, to Status, actorID string, at time.Time, entry audit.Entry) (*Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
}
