// Package audit keeps the per-booking timeline of lifecycle changes.
package audit

import (
	"context"
	"time"
)

type Action string

const (
	ActionBookingCreated  Action = "BOOKING_CREATED"
	ActionBookingApproved Action = "BOOKING_APPROVED"
	ActionBookingRejected Action = "BOOKING_REJECTED"
)

type Entry struct {
	ID         string         `json:"id"`
	BookingID  string         `json:"bookingId"`
	Action     Action         `json:"action"`
	Summary    string         `json:"summary"`
	Actor      string         `json:"actor"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

type Reader interface {
	ListByBooking(ctx context.Context, bookingID string) ([]Entry, error)
}

type Store interface {
	Reader
	Record(ctx context.Context, e Entry) error
}
