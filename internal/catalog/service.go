package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookit/internal/apperror"
	"bookit/internal/identity"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Venues(ctx context.Context) ([]Venue, error) {
	return s.store.ListVenues(ctx)
}

func (s *Service) Venue(ctx context.Context, id string) (*Venue, error) {
	if id == "" {
		return nil, apperror.Invalid("VENUE_ID_REQUIRED", "venue id is required")
	}
	return s.store.GetVenue(ctx, id)
}

// Event returns the raw event record.
func (s *Service) Event(ctx context.Context, id string) (*Event, error) {
	if id == "" {
		return nil, apperror.Invalid("EVENT_ID_REQUIRED", "event id is required")
	}
	return s.store.GetEvent(ctx, id)
}

// EventView returns an event with its venue. A private event is NotFound to
// viewers without review-bookings, so its existence is not disclosed.
func (s *Service) EventView(ctx context.Context, id string, viewer *identity.Identity) (*EventView, error) {
	e, err := s.Event(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(*e, viewer) {
		return nil, apperror.ErrNotFound
	}
	v, err := s.joinVenue(ctx, *e)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EventViews lists events with their venues. Private events are only listed
// for callers holding review-bookings.
func (s *Service) EventViews(ctx context.Context, viewer *identity.Identity) ([]EventView, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		if !visible(e, viewer) {
			continue
		}
		v, err := s.joinVenue(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func visible(e Event, viewer *identity.Identity) bool {
	return e.IsPublic || identity.Authorize(viewer, identity.CapReviewBookings)
}

// Events lists every event, private ones included.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	return s.store.ListEvents(ctx)
}

func (s *Service) joinVenue(ctx context.Context, e Event) (EventView, error) {
	v, err := s.store.GetVenue(ctx, e.VenueID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return EventView{Event: e, VenueUnavailable: true}, nil
		}
		return EventView{}, fmt.Errorf("get venue %s: %w", e.VenueID, err)
	}
	return EventView{Event: e, Venue: v}, nil
}

type CreateVenueRequest struct {
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Capacity     int             `json:"capacity"`
	Description  string          `json:"description"`
	Amenities    []string        `json:"amenities"`
	PricePerHour decimal.Decimal `json:"pricePerHour"`
}

func (s *Service) CreateVenue(ctx context.Context, actor *identity.Identity, req CreateVenueRequest) (*Venue, error) {
	if !identity.Authorize(actor, identity.CapPartnerApproved) {
		return nil, apperror.ErrUnauthorized
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" {
		return nil, apperror.Invalid("VENUE_NAME_REQUIRED", "venue name is required")
	}
	if req.Location == "" {
		return nil, apperror.Invalid("VENUE_LOCATION_REQUIRED", "venue location is required")
	}
	if req.Capacity <= 0 {
		return nil, apperror.Invalid("VENUE_CAPACITY_INVALID", "capacity must be a positive integer")
	}
	if req.PricePerHour.IsNegative() {
		return nil, apperror.Invalid("VENUE_PRICE_INVALID", "price per hour must be >= 0")
	}
	amenities, err := normalizeAmenities(req.Amenities)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &Venue{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Description:  strings.TrimSpace(req.Description),
		Amenities:    amenities,
		PricePerHour: req.PricePerHour,
		OwnerID:      actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateVenue(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	VenueID     string `json:"venueId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Capacity    int    `json:"capacity"`
	Organizer   string `json:"organizer"`
	IsPublic    *bool  `json:"isPublic"`
}

func (s *Service) CreateEvent(ctx context.Context, actor *identity.Identity, req CreateEventRequest) (*Event, error) {
	if !identity.Authorize(actor, identity.CapPartnerApproved) {
		return nil, apperror.ErrUnauthorized
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperror.Invalid("EVENT_NAME_REQUIRED", "event name is required")
	}
	if req.Capacity <= 0 {
		return nil, apperror.Invalid("EVENT_CAPACITY_INVALID", "capacity must be a positive integer")
	}
	start, err := parseTime(req.StartDate)
	if err != nil {
		return nil, apperror.Invalid("EVENT_DATE_INVALID", "startDate must be RFC3339")
	}
	end, err := parseTime(req.EndDate)
	if err != nil {
		return nil, apperror.Invalid("EVENT_DATE_INVALID", "endDate must be RFC3339")
	}
	if !end.After(start) {
		return nil, apperror.Invalid("EVENT_DATES_INVALID", "endDate must be after startDate")
	}
	if req.VenueID == "" {
		return nil, apperror.Invalid("VENUE_ID_REQUIRED", "venueId is required")
	}
	if _, err := s.store.GetVenue(ctx, req.VenueID); err != nil {
		return nil, fmt.Errorf("venue %s: %w", req.VenueID, err)
	}

	organizer := strings.TrimSpace(req.Organizer)
	if organizer == "" {
		organizer = actor.Name
	}
	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}

	now := s.now().UTC()
	e := &Event{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		VenueID:     req.VenueID,
		StartDate:   start,
		EndDate:     end,
		Capacity:    req.Capacity,
		Organizer:   organizer,
		IsPublic:    public,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeAmenities(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			return nil, apperror.Invalid("AMENITY_DUPLICATE", fmt.Sprintf("amenity %q listed twice", a))
		}
		seen[key] = true
		out = append(out, a)
	}
	return out, nil
}
