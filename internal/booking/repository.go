package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookit/internal/apperror"
	"bookit/internal/audit"
	"bookit/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `seq, id, event_id, user_id, attendees, status, COALESCE(notes,''), package, total_price::text, COALESCE(decided_by,''), created_at, updated_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var (
		b      Booking
		status string
		pkg    string
		total  string
	)
	if err := row.Scan(&b.Seq, &b.ID, &b.EventID, &b.UserID, &b.NumberOfAttendees, &status, &b.Notes, &pkg, &total, &b.DecidedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Booking{}, err
	}
	b.Status = Status(status)
	b.Package = Package(pkg)
	t, err := decimal.NewFromString(total)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %s total: %w", b.ID, err)
	}
	b.TotalPrice = t
	return b, nil
}

// Insert locks the event row so concurrent requests for the same event see
// each other's attendee totals. The booking and its entries commit together.
func (r *Repository) Insert(ctx context.Context, b *Booking, capacity int, entries ...audit.Entry) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if capacity > 0 {
			var eventID string
			err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, b.EventID).Scan(&eventID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperror.ErrNotFound
				}
				return fmt.Errorf("lock event row: %w", err)
			}

			var held int
			const qHeld = `
SELECT COALESCE(SUM(attendees), 0)
FROM bookings
WHERE event_id = $1 AND status <> 'rejected'
`
			if err := tx.QueryRow(ctx, qHeld, b.EventID).Scan(&held); err != nil {
				return fmt.Errorf("sum attendees: %w", err)
			}
			if held+b.NumberOfAttendees > capacity {
				return ErrCapacityExceeded
			}
		}

		const q = `
INSERT INTO bookings (id, event_id, user_id, attendees, status, notes, package, total_price, decided_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7, $8::numeric, NULLIF($9,''), $10, $11)
RETURNING seq
`
		err := tx.QueryRow(ctx, q,
			b.ID, b.EventID, b.UserID, b.NumberOfAttendees, string(b.Status), b.Notes, string(b.Package),
			b.TotalPrice.String(), b.DecidedBy, b.CreatedAt, b.UpdatedAt,
		).Scan(&b.Seq)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperror.Conflict("BOOKING_EXISTS", "booking id already exists")
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		for _, e := range entries {
			if err := audit.Insert(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// Transition holds the booking row lock between the status check and the
// update, so two concurrent decisions cannot both see pending. The audit entry
// is written in the same transaction.
func (r *Repository) Transition(ctx context.Context, id string, to Status, actorID string, at time.Time, entry audit.Entry) (*Booking, error) {
	var out Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.ErrNotFound
			}
			return fmt.Errorf("lock booking row: %w", err)
		}
		if !CanTransition(Status(current), to) {
			return fmt.Errorf("booking %s is %s: %w", id, current, apperror.ErrInvalidStateTransition)
		}

		const q = `
UPDATE bookings
SET status = $2, decided_by = NULLIF($3,''), updated_at = $4
WHERE id = $1
RETURNING ` + bookingColumns
		out, err = scanBooking(tx.QueryRow(ctx, q, id, string(to), actorID, at))
		if err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}
		return audit.Insert(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Booking, error) {
	var (
		where []string
		args  []any
	)
	add := func(col, val string) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.UserID != "" {
		add("user_id", f.UserID)
	}
	if f.EventID != "" {
		add("event_id", f.EventID)
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}

	q := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq ASC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
