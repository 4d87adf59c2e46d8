package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookit/internal/apperror"
)

// Store persists identities. Emails are stored normalized (see NormalizeEmail)
// and are unique; Create fails with an apperror.ErrConflict on a duplicate.
type Store interface {
	Create(ctx context.Context, id *Identity) error
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Verifier resolves credentials to an identity. Implementations return an
// error wrapping apperror.ErrInvalidCredentials when nothing matches.
type Verifier interface {
	Verify(ctx context.Context, c Credentials) (*Identity, error)
}

// PasswordVerifier checks a bcrypt hash held in the identity store.
type PasswordVerifier struct {
	Store Store
}

func (v PasswordVerifier) Verify(ctx context.Context, c Credentials) (*Identity, error) {
	email := NormalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	id, err := v.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(c.Password)) != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return id, nil
}

type Service struct {
	store    Store
	verifier Verifier
	now      func() time.Time
}

func NewService(store Store, verifier Verifier) *Service {
	if verifier == nil {
		verifier = PasswordVerifier{Store: store}
	}
	return &Service{store: store, verifier: verifier, now: time.Now}
}

func (s *Service) Authenticate(ctx context.Context, c Credentials) (*Identity, error) {
	return s.verifier.Verify(ctx, c)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user-role identity. Emails are unique.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if name == "" {
		return nil, apperror.Invalid("NAME_REQUIRED", "name is required")
	}
	if !isValidEmail(email) {
		return nil, apperror.Invalid("EMAIL_INVALID", "email is not a valid address")
	}
	if req.Password == "" {
		return nil, apperror.Invalid("PASSWORD_REQUIRED", "password is required")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         RoleUser,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, id); err != nil {
		return nil, err
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Identity, error) {
	return s.store.FindByID(ctx, id)
}

func HashPassword(pw string) (string, error) {
	if len(pw) > 72 {
		return "", apperror.Invalid("PASSWORD_TOO_LONG", "password must be at most 72 bytes")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
