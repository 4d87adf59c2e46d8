package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookit/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, e Entry) error {
	return Insert(ctx, r.db, e)
}

// Insert writes one entry through q. Booking stores pass their open
// transaction so the entry commits or rolls back with the status change.
func Insert(ctx context.Context, q db.Querier, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var s *string
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("encode booking event data: %w", err)
		}
		str := string(b)
		s = &str
	}
	const stmt = `
INSERT INTO booking_events (id, booking_id, action, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, $6, CAST($7 AS jsonb))
`
	if _, err := q.Exec(ctx, stmt, e.ID, e.BookingID, string(e.Action), e.Summary, e.Actor, e.OccurredAt, s); err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

func (r *Repository) ListByBooking(ctx context.Context, bookingID string) ([]Entry, error) {
	const q = `
SELECT id, booking_id, action, summary, actor, occurred_at, COALESCE(data, '{}'::jsonb)
FROM booking_events
WHERE booking_id = $1
ORDER BY occurred_at ASC, seq ASC
`
	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			action string
		)
		if err := rows.Scan(&e.ID, &e.BookingID, &action, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
