// Package seed loads the demo marketplace: four identities, four venues,
// four events and three bookings.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"bookit/internal/apperror"
	"bookit/internal/audit"
	"bookit/internal/booking"
	"bookit/internal/catalog"
	"bookit/internal/identity"
)

type Stores struct {
	Identities identity.Store
	Catalog    catalog.Store
	Bookings   booking.Store
}

type user struct {
	id, name, email string
	role            identity.Role
	created         string
}

var users = []user{
	{"1", "Admin User", "admin@bookit.com", identity.RoleAdmin, "2024-01-01T00:00:00Z"},
	{"2", "John Doe", "john@example.com", identity.RoleUser, "2024-01-02T00:00:00Z"},
	{"3", "Jane Smith", "jane@example.com", identity.RoleUser, "2024-01-03T00:00:00Z"},
	{"4", "Venue Partner", "provider@bookit.com", identity.RoleProvider, "2024-01-04T00:00:00Z"},
}

// ProviderID owns the seeded public events.
const ProviderID = "4"

func Venues() []catalog.Venue {
	return []catalog.Venue{
		{
			ID:           "1",
			Name:         "Grand Conference Center",
			Location:     "Downtown Business District",
			Capacity:     200,
			Description:  "A prestigious venue perfect for large corporate events, conferences, and seminars.",
			Amenities:    []string{"WiFi", "Projector", "Sound System", "Catering", "Parking", "Air Conditioning"},
			PricePerHour: decimal.NewFromInt(150),
			OwnerID:      ProviderID,
			CreatedAt:    ts("2024-01-15T10:00:00Z"),
			UpdatedAt:    ts("2024-01-15T10:00:00Z"),
		},
		{
			ID:           "2",
			Name:         "Creative Studio Space",
			Location:     "Arts Quarter",
			Capacity:     50,
			Description:  "An inspiring creative workspace ideal for workshops, team building, and artistic events.",
			Amenities:    []string{"WiFi", "Whiteboard", "Kitchen", "Natural Light", "Flexible Seating"},
			PricePerHour: decimal.NewFromInt(80),
			OwnerID:      ProviderID,
			CreatedAt:    ts("2024-01-16T11:00:00Z"),
			UpdatedAt:    ts("2024-01-16T11:00:00Z"),
		},
		{
			ID:           "3",
			Name:         "Executive Boardroom",
			Location:     "Financial Center",
			Capacity:     20,
			Description:  "An exclusive boardroom for high-level meetings and strategic discussions.",
			Amenities:    []string{"WiFi", "Video Conferencing", "Coffee Service", "Secure Access", "Leather Seating"},
			PricePerHour: decimal.NewFromInt(200),
			CreatedAt:    ts("2024-01-17T09:00:00Z"),
			UpdatedAt:    ts("2024-01-17T09:00:00Z"),
		},
		{
			ID:           "4",
			Name:         "Innovation Hub",
			Location:     "Tech District",
			Capacity:     100,
			Description:  "A modern tech-enabled space perfect for product launches, hackathons, and innovation workshops.",
			Amenities:    []string{"WiFi", "Multiple Screens", "Standing Desks", "Phone Booths", "Gaming Area", "Snack Bar"},
			PricePerHour: decimal.NewFromInt(120),
			OwnerID:      ProviderID,
			CreatedAt:    ts("2024-01-18T14:00:00Z"),
			UpdatedAt:    ts("2024-01-18T14:00:00Z"),
		},
	}
}

func Events() []catalog.Event {
	return []catalog.Event{
		{
			ID:          "1",
			Name:        "Digital Marketing Summit 2024",
			Description: "Join industry leaders for a comprehensive digital marketing conference.",
			VenueID:     "1",
			StartDate:   ts("2024-03-15T09:00:00Z"),
			EndDate:     ts("2024-03-15T17:00:00Z"),
			Capacity:    180,
			Organizer:   "Marketing Professionals Network",
			IsPublic:    true,
			OwnerID:     ProviderID,
			CreatedAt:   ts("2024-01-20T10:00:00Z"),
			UpdatedAt:   ts("2024-01-20T10:00:00Z"),
		},
		{
			ID:          "2",
			Name:        "Creative Workshop: Design Thinking",
			Description: "An interactive workshop focused on design thinking methodologies.",
			VenueID:     "2",
			StartDate:   ts("2024-03-20T13:00:00Z"),
			EndDate:     ts("2024-03-20T16:00:00Z"),
			Capacity:    40,
			Organizer:   "Design Innovation Lab",
			IsPublic:    true,
			OwnerID:     ProviderID,
			CreatedAt:   ts("2024-01-21T11:00:00Z"),
			UpdatedAt:   ts("2024-01-21T11:00:00Z"),
		},
		{
			ID:          "3",
			Name:        "Quarterly Board Meeting",
			Description: "Confidential quarterly review meeting for board members and key stakeholders.",
			VenueID:     "3",
			StartDate:   ts("2024-03-25T10:00:00Z"),
			EndDate:     ts("2024-03-25T15:00:00Z"),
			Capacity:    15,
			Organizer:   "Corporate Board",
			IsPublic:    false,
			CreatedAt:   ts("2024-01-22T09:00:00Z"),
			UpdatedAt:   ts("2024-01-22T09:00:00Z"),
		},
		{
			ID:          "4",
			Name:        "Startup Pitch Competition",
			Description: "Emerging startups present their ideas to a panel of investors.",
			VenueID:     "4",
			StartDate:   ts("2024-04-01T18:00:00Z"),
			EndDate:     ts("2024-04-01T21:00:00Z"),
			Capacity:    90,
			Organizer:   "Startup Accelerator Hub",
			IsPublic:    true,
			OwnerID:     ProviderID,
			CreatedAt:   ts("2024-01-23T16:00:00Z"),
			UpdatedAt:   ts("2024-01-23T16:00:00Z"),
		},
	}
}

func Bookings() []booking.Booking {
	mk := func(id, eventID, userID string, attendees int, status booking.Status, notes, created, updated string) booking.Booking {
		total, _ := booking.TotalPrice(booking.PackagePremium, attendees)
		b := booking.Booking{
			ID:                id,
			EventID:           eventID,
			UserID:            userID,
			NumberOfAttendees: attendees,
			Status:            status,
			Notes:             notes,
			Package:           booking.PackagePremium,
			TotalPrice:        total,
			CreatedAt:         ts(created),
			UpdatedAt:         ts(updated),
		}
		if status != booking.StatusPending {
			b.DecidedBy = "1"
		}
		return b
	}
	return []booking.Booking{
		mk("1", "1", "2", 2, booking.StatusApproved, "Looking forward to the marketing insights!", "2024-01-25T10:00:00Z", "2024-01-26T14:00:00Z"),
		mk("2", "2", "2", 1, booking.StatusPending, "Interested in design thinking methodologies", "2024-01-27T09:00:00Z", "2024-01-27T09:00:00Z"),
		mk("3", "4", "3", 3, booking.StatusApproved, "Bringing my team to learn about startups", "2024-01-28T15:00:00Z", "2024-01-29T10:00:00Z"),
	}
}

// Trail is the audit history of a seeded booking: its creation and, once
// decided, the admin's decision.
func Trail(b booking.Booking) []audit.Entry {
	out := []audit.Entry{{
		ID:         "seed-" + b.ID + "-created",
		BookingID:  b.ID,
		Action:     audit.ActionBookingCreated,
		Summary:    "Booking requested",
		Actor:      b.UserID,
		OccurredAt: b.CreatedAt,
		Data:       map[string]any{"eventId": b.EventID, "attendees": b.NumberOfAttendees, "package": string(b.Package)},
	}}
	action, summary := audit.ActionBookingApproved, "Booking approved"
	switch b.Status {
	case booking.StatusPending:
		return out
	case booking.StatusRejected:
		action, summary = audit.ActionBookingRejected, "Booking rejected"
	}
	return append(out, audit.Entry{
		ID:         "seed-" + b.ID + "-decided",
		BookingID:  b.ID,
		Action:     action,
		Summary:    summary,
		Actor:      b.DecidedBy,
		OccurredAt: b.UpdatedAt,
		Data:       map[string]any{"from": string(booking.StatusPending), "to": string(b.Status)},
	})
}

// Load writes the demo data. Records that already exist are left alone, so
// Load is safe to run on every boot against a persistent store.
func Load(ctx context.Context, s Stores, password string) error {
	hash, err := identity.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	created := 0
	for _, u := range users {
		err := s.Identities.Create(ctx, &identity.Identity{
			ID:           u.id,
			Name:         u.name,
			Email:        u.email,
			Role:         u.role,
			PasswordHash: hash,
			CreatedAt:    ts(u.created),
		})
		if ok, err := applied(err); err != nil {
			return fmt.Errorf("seed identity %s: %w", u.email, err)
		} else if ok {
			created++
		}
	}
	for _, v := range Venues() {
		v := v
		if ok, err := applied(s.Catalog.CreateVenue(ctx, &v)); err != nil {
			return fmt.Errorf("seed venue %s: %w", v.ID, err)
		} else if ok {
			created++
		}
	}
	for _, e := range Events() {
		e := e
		if ok, err := applied(s.Catalog.CreateEvent(ctx, &e)); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		} else if ok {
			created++
		}
	}
	for _, b := range Bookings() {
		b := b
		if ok, err := applied(s.Bookings.Insert(ctx, &b, 0, Trail(b)...)); err != nil {
			return fmt.Errorf("seed booking %s: %w", b.ID, err)
		} else if ok {
			created++
		}
	}

	log.Printf("[seed] loaded %d records", created)
	return nil
}

func applied(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperror.ErrConflict) {
		return false, nil
	}
	return false, err
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
