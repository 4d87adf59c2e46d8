package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookit/internal/apperror"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const venueColumns = `id, name, location, capacity, description, amenities, price_per_hour::text, COALESCE(owner_id,''), created_at, updated_at`

func scanVenue(row pgx.Row) (Venue, error) {
	var (
		v     Venue
		price string
	)
	if err := row.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Description, &v.Amenities, &price, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return Venue{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Venue{}, fmt.Errorf("venue %s price: %w", v.ID, err)
	}
	v.PricePerHour = p
	return v, nil
}

func (r *Repository) ListVenues(ctx context.Context) ([]Venue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) GetVenue(ctx context.Context, id string) (*Venue, error) {
	v, err := scanVenue(r.db.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return &v, nil
}

func (r *Repository) CreateVenue(ctx context.Context, v *Venue) error {
	const q = `
INSERT INTO venues (id, name, location, capacity, description, amenities, price_per_hour, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, NULLIF($8,''), $9, $10)
`
	amenities := v.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	_, err := r.db.Exec(ctx, q, v.ID, v.Name, v.Location, v.Capacity, v.Description, amenities, v.PricePerHour.String(), v.OwnerID, v.CreatedAt, v.UpdatedAt)
	return insertErr("venue", err)
}

const eventColumns = `id, name, description, venue_id, start_date, end_date, capacity, organizer, is_public, COALESCE(owner_id,''), created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.VenueID, &e.StartDate, &e.EndDate, &e.Capacity, &e.Organizer, &e.IsPublic, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) GetEvent(ctx context.Context, id string) (*Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (r *Repository) CreateEvent(ctx context.Context, e *Event) error {
	const q = `
INSERT INTO events (id, name, description, venue_id, start_date, end_date, capacity, organizer, is_public, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,''), $11, $12)
`
	_, err := r.db.Exec(ctx, q, e.ID, e.Name, e.Description, e.VenueID, e.StartDate, e.EndDate, e.Capacity, e.Organizer, e.IsPublic, e.OwnerID, e.CreatedAt, e.UpdatedAt)
	return insertErr("event", err)
}

func insertErr(kind string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.Conflict(strings.ToUpper(kind)+"_EXISTS", kind+" id already exists")
	}
	return fmt.Errorf("insert %s: %w", kind, err)
}
