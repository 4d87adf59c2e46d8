// Package catalog holds the venue and event listings people book against.
package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Venue struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Capacity     int             `json:"capacity"`
	Description  string          `json:"description"`
	Amenities    []string        `json:"amenities"`
	PricePerHour decimal.Decimal `json:"pricePerHour"`
	OwnerID      string          `json:"ownerId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VenueID     string    `json:"venueId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Capacity    int       `json:"capacity"`
	Organizer   string    `json:"organizer"`
	IsPublic    bool      `json:"isPublic"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventView is an event joined with its venue. A dangling venue id is not an
// error; the view reports the venue as unavailable.
type EventView struct {
	Event
	Venue            *Venue `json:"venue,omitempty"`
	VenueUnavailable bool   `json:"venueUnavailable"`
}

// Store persists listings. Get methods return apperror.ErrNotFound for
// unknown ids. Lists are ordered by creation time.
type Store interface {
	ListVenues(ctx context.Context) ([]Venue, error)
	GetVenue(ctx context.Context, id string) (*Venue, error)
	CreateVenue(ctx context.Context, v *Venue) error

	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, e *Event) error
}
