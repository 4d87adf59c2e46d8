package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bookit/internal/identity"
)

type Claims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Selected string `json:"selected_role,omitempty"`
}

// Verified is what a valid token says about its bearer.
type Verified struct {
	TokenID   string
	Identity  identity.Identity
	Selected  identity.SelectedRole
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 session tokens and keeps a denylist of
// tokens revoked by logout until they would have expired anyway.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// WithClock swaps the time source; tests use it to pin token times.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) Issue(id *identity.Identity, selected identity.SelectedRole) (string, time.Time, error) {
	if id == nil {
		return "", time.Time{}, fmt.Errorf("missing identity")
	}
	if len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("missing session secret")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:    id.Email,
		Name:     id.Name,
		Role:     string(id.Role),
		Selected: string(selected),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (i *Issuer) Verify(tokenString string) (*Verified, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	now := i.now()
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	if i.isRevoked(claims.ID, now) {
		return nil, fmt.Errorf("token revoked")
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil || role == identity.RoleGuest {
		return nil, fmt.Errorf("token role invalid")
	}
	selected, err := identity.ParseSelectedRole(claims.Selected)
	if err != nil {
		return nil, err
	}

	return &Verified{
		TokenID: claims.ID,
		Identity: identity.Identity{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  role,
		},
		Selected:  selected,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke denylists a token id until exp.
func (i *Issuer) Revoke(tokenID string, exp time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	for id, until := range i.revoked {
		if !until.After(now) {
			delete(i.revoked, id)
		}
	}
	i.revoked[tokenID] = exp
}

func (i *Issuer) isRevoked(tokenID string, now time.Time) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	until, ok := i.revoked[tokenID]
	return ok && until.After(now)
}
