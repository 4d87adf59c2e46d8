// Package report builds the dashboard summaries and the provider revenue report.
package report

import (
	"context"

	"github.com/shopspring/decimal"

	"bookit/internal/apperror"
	"bookit/internal/booking"
	"bookit/internal/catalog"
	"bookit/internal/identity"
)

type BookingSource interface {
	List(ctx context.Context, f booking.Filter) ([]booking.Booking, error)
}

type CatalogSource interface {
	Venues(ctx context.Context) ([]catalog.Venue, error)
	Events(ctx context.Context) ([]catalog.Event, error)
}

type Service struct {
	bookings BookingSource
	catalog  CatalogSource
}

func NewService(bookings BookingSource, listings CatalogSource) *Service {
	return &Service{bookings: bookings, catalog: listings}
}

type UserSummary struct {
	TotalBookings int `json:"totalBookings"`
	Approved      int `json:"approved"`
	Pending       int `json:"pending"`
	Rejected      int `json:"rejected"`
}

func (s *Service) UserSummary(ctx context.Context, viewer *identity.Identity) (*UserSummary, error) {
	if viewer == nil {
		return nil, apperror.ErrUnauthorized
	}
	items, err := s.bookings.List(ctx, booking.Filter{UserID: viewer.ID})
	if err != nil {
		return nil, err
	}
	out := &UserSummary{TotalBookings: len(items)}
	for _, b := range items {
		switch b.Status {
		case booking.StatusApproved:
			out.Approved++
		case booking.StatusPending:
			out.Pending++
		case booking.StatusRejected:
			out.Rejected++
		}
	}
	return out, nil
}

type AdminSummary struct {
	Venues           int             `json:"venues"`
	Events           int             `json:"events"`
	PendingBookings  int             `json:"pendingBookings"`
	ApprovedBookings int             `json:"approvedBookings"`
	Revenue          decimal.Decimal `json:"revenue"`
}

func (s *Service) AdminSummary(ctx context.Context, viewer *identity.Identity) (*AdminSummary, error) {
	if !identity.Authorize(viewer, identity.CapReviewBookings) {
		return nil, apperror.ErrUnauthorized
	}
	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.bookings.List(ctx, booking.Filter{})
	if err != nil {
		return nil, err
	}

	out := &AdminSummary{Venues: len(venues), Events: len(events), Revenue: decimal.Zero}
	for _, b := range items {
		switch b.Status {
		case booking.StatusPending:
			out.PendingBookings++
		case booking.StatusApproved:
			out.ApprovedBookings++
			out.Revenue = out.Revenue.Add(b.TotalPrice)
		}
	}
	return out, nil
}

type EventRevenue struct {
	EventID          string          `json:"eventId"`
	EventName        string          `json:"eventName"`
	ApprovedBookings int             `json:"approvedBookings"`
	Attendees        int             `json:"attendees"`
	Revenue          decimal.Decimal `json:"revenue"`
}

type Revenue struct {
	Events    []EventRevenue  `json:"events"`
	Attendees int             `json:"attendees"`
	Total     decimal.Decimal `json:"total"`
}

// Revenue sums approved bookings per event. Providers see the events they
// listed; admins see every event.
func (s *Service) Revenue(ctx context.Context, viewer *identity.Identity) (*Revenue, error) {
	if !identity.Authorize(viewer, identity.CapPartnerApproved) {
		return nil, apperror.ErrUnauthorized
	}
	all := identity.Authorize(viewer, identity.CapReviewBookings)

	events, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.bookings.List(ctx, booking.Filter{Status: booking.StatusApproved})
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*EventRevenue)
	out := &Revenue{Events: []EventRevenue{}, Total: decimal.Zero}
	var order []string
	for _, e := range events {
		if !all && e.OwnerID != viewer.ID {
			continue
		}
		rows[e.ID] = &EventRevenue{EventID: e.ID, EventName: e.Name, Revenue: decimal.Zero}
		order = append(order, e.ID)
	}
	for _, b := range approved {
		row, ok := rows[b.EventID]
		if !ok {
			continue
		}
		row.ApprovedBookings++
		row.Attendees += b.NumberOfAttendees
		row.Revenue = row.Revenue.Add(b.TotalPrice)
		out.Attendees += b.NumberOfAttendees
		out.Total = out.Total.Add(b.TotalPrice)
	}
	for _, id := range order {
		out.Events = append(out.Events, *rows[id])
	}
	return out, nil
}
