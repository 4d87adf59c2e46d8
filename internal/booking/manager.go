package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bookit/internal/apperror"
	"bookit/internal/audit"
	"bookit/internal/catalog"
	"bookit/internal/identity"
)

var ErrCapacityExceeded = apperror.Conflict("CAPACITY_EXCEEDED", "event does not have enough remaining capacity")

// EventLookup resolves the event a booking targets.
type EventLookup interface {
	Event(ctx context.Context, id string) (*catalog.Event, error)
}

type Options struct {
	// EnforceCapacity bounds pending+approved attendees by the event capacity.
	EnforceCapacity bool
}

type Manager struct {
	store  Store
	events EventLookup
	audit  audit.Reader
	opts   Options
	tracer trace.Tracer
	now    func() time.Time
}

// auditLog serves History; the store writes the entries.
func NewManager(store Store, events EventLookup, auditLog audit.Reader, opts Options) *Manager {
	return &Manager{
		store:  store,
		events: events,
		audit:  auditLog,
		opts:   opts,
		tracer: otel.Tracer("bookit/booking"),
		now:    time.Now,
	}
}

type CreateRequest struct {
	EventID       string `json:"eventId"`
	UserID        string `json:"-"`
	AttendeeCount int    `json:"numberOfAttendees"`
	Notes         string `json:"notes,omitempty"`
	Package       string `json:"package,omitempty"`
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return apperror.Invalid("EVENT_ID_REQUIRED", "eventId is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return apperror.Invalid("USER_ID_REQUIRED", "userId is required")
	}
	if r.AttendeeCount < 1 {
		return apperror.Invalid("ATTENDEES_INVALID", "numberOfAttendees must be >= 1")
	}
	if _, err := ParsePackage(r.Package); err != nil {
		return apperror.Invalid("PACKAGE_INVALID", err.Error())
	}
	return nil
}

// Create records a pending booking request for a public event.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	ctx, span := m.tracer.Start(ctx, "booking.Create", trace.WithAttributes(
		attribute.String("booking.event_id", req.EventID),
		attribute.Int("booking.attendees", req.AttendeeCount),
	))
	defer span.End()

	b, err := m.create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))
	return b, nil
}

func (m *Manager) create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ev, err := m.events.Event(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", req.EventID, err)
	}
	if !ev.IsPublic {
		return nil, apperror.Invalid("EVENT_NOT_PUBLIC", "event is not open for booking")
	}

	pkg, _ := ParsePackage(req.Package)
	total, err := TotalPrice(pkg, req.AttendeeCount)
	if err != nil {
		return nil, err
	}

	capacity := 0
	if m.opts.EnforceCapacity {
		if req.AttendeeCount > ev.Capacity {
			return nil, ErrCapacityExceeded
		}
		capacity = ev.Capacity
	}

	now := m.now().UTC()
	b := &Booking{
		ID:                uuid.NewString(),
		EventID:           ev.ID,
		UserID:            req.UserID,
		NumberOfAttendees: req.AttendeeCount,
		Status:            StatusPending,
		Notes:             strings.TrimSpace(req.Notes),
		Package:           pkg,
		TotalPrice:        total,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	created := audit.Entry{
		BookingID:  b.ID,
		Action:     audit.ActionBookingCreated,
		Summary:    "Booking requested",
		Actor:      b.UserID,
		OccurredAt: now,
		Data:       map[string]any{"eventId": b.EventID, "attendees": b.NumberOfAttendees, "package": string(b.Package)},
	}
	if err := m.store.Insert(ctx, b, capacity, created); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *Manager) Approve(ctx context.Context, bookingID string, actor *identity.Identity) (*Booking, error) {
	return m.decide(ctx, bookingID, actor, StatusApproved)
}

func (m *Manager) Reject(ctx context.Context, bookingID string, actor *identity.Identity) (*Booking, error) {
	return m.decide(ctx, bookingID, actor, StatusRejected)
}

func (m *Manager) decide(ctx context.Context, bookingID string, actor *identity.Identity, to Status) (*Booking, error) {
	ctx, span := m.tracer.Start(ctx, "booking.Decide", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("booking.to", string(to)),
	))
	defer span.End()

	fail := func(err error) (*Booking, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !identity.Authorize(actor, identity.CapReviewBookings) {
		return fail(apperror.ErrUnauthorized)
	}
	if bookingID == "" {
		return fail(apperror.Invalid("BOOKING_ID_REQUIRED", "booking id is required"))
	}

	now := m.now().UTC()
	action, summary := audit.ActionBookingApproved, "Booking approved"
	if to == StatusRejected {
		action, summary = audit.ActionBookingRejected, "Booking rejected"
	}
	b, err := m.store.Transition(ctx, bookingID, to, actor.ID, now, audit.Entry{
		BookingID:  bookingID,
		Action:     action,
		Summary:    summary,
		Actor:      actor.ID,
		OccurredAt: now,
		Data:       map[string]any{"from": string(StatusPending), "to": string(to)},
	})
	if err != nil {
		return fail(err)
	}
	return b, nil
}

// Get returns a booking to its owner or to a reviewer.
func (m *Manager) Get(ctx context.Context, bookingID string, viewer *identity.Identity) (*Booking, error) {
	if viewer == nil {
		return nil, apperror.ErrUnauthorized
	}
	b, err := m.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != viewer.ID && !identity.Authorize(viewer, identity.CapReviewBookings) {
		return nil, apperror.ErrUnauthorized
	}
	return b, nil
}

// ListForUser returns every booking the user created, oldest first.
func (m *Manager) ListForUser(ctx context.Context, userID string) ([]Booking, error) {
	if userID == "" {
		return nil, apperror.Invalid("USER_ID_REQUIRED", "userId is required")
	}
	items, err := m.store.List(ctx, Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	sortByCreation(items)
	return items, nil
}

// ListPending is the admin review queue, first come first served.
func (m *Manager) ListPending(ctx context.Context) ([]Booking, error) {
	return m.store.List(ctx, Filter{Status: StatusPending})
}

// ListApproved returns approved bookings oldest first, or with limit > 0 the
// most recently decided ones first.
func (m *Manager) ListApproved(ctx context.Context, limit int) ([]Booking, error) {
	items, err := m.store.List(ctx, Filter{Status: StatusApproved})
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		sortByCreation(items)
		return items, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].Seq > items[j].Seq
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ListForEvent returns the event's bookings oldest first. An unknown event is
// NotFound rather than an empty list.
func (m *Manager) ListForEvent(ctx context.Context, eventID string) ([]Booking, error) {
	if _, err := m.events.Event(ctx, eventID); err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}
	items, err := m.store.List(ctx, Filter{EventID: eventID})
	if err != nil {
		return nil, err
	}
	sortByCreation(items)
	return items, nil
}

// List is the unfiltered snapshot used by reports.
func (m *Manager) List(ctx context.Context, f Filter) ([]Booking, error) {
	return m.store.List(ctx, f)
}

func (m *Manager) History(ctx context.Context, bookingID string, viewer *identity.Identity) ([]audit.Entry, error) {
	if _, err := m.Get(ctx, bookingID, viewer); err != nil {
		return nil, err
	}
	if m.audit == nil {
		return nil, nil
	}
	return m.audit.ListByBooking(ctx, bookingID)
}

func sortByCreation(items []Booking) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].Seq < items[j].Seq
	})
}
