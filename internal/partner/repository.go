package partner

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, a *Application) error {
	const q = `
INSERT INTO partner_applications (id, user_id, business_name, contact_person, email, phone, business_type, experience, description, website, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.db.Exec(ctx, q, a.ID, a.UserID, a.BusinessName, a.ContactPerson, a.Email, a.Phone, a.BusinessType, a.Experience, a.Description, a.Website, string(a.Status), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert partner application: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Application, error) {
	const q = `
SELECT id, user_id, business_name, contact_person, email, phone, business_type, experience, description, website, status, created_at
FROM partner_applications
ORDER BY created_at ASC, id ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list partner applications: %w", err)
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var (
			a      Application
			status string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.BusinessName, &a.ContactPerson, &a.Email, &a.Phone, &a.BusinessType, &a.Experience, &a.Description, &a.Website, &status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = Status(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
