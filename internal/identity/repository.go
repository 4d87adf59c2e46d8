package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookit/internal/apperror"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, id *Identity) error {
	const q = `
INSERT INTO identities (id, name, email, role, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.db.Exec(ctx, q, id.ID, id.Name, NormalizeEmail(id.Email), string(id.Role), id.PasswordHash, id.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.Conflict("EMAIL_TAKEN", "email already registered")
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	const q = `
SELECT id, name, email, role, password_hash, created_at
FROM identities
WHERE email = $1
`
	return r.scanOne(ctx, q, NormalizeEmail(email))
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Identity, error) {
	const q = `
SELECT id, name, email, role, password_hash, created_at
FROM identities
WHERE id = $1
`
	return r.scanOne(ctx, q, id)
}

func (r *Repository) scanOne(ctx context.Context, q string, arg string) (*Identity, error) {
	var (
		id   Identity
		role string
	)
	err := r.db.QueryRow(ctx, q, arg).Scan(&id.ID, &id.Name, &id.Email, &role, &id.PasswordHash, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	id.Role = Role(role)
	return &id, nil
}
