package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookit/internal/identity"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	iss := NewIssuer("test_secret", "bookit", time.Hour).WithClock(func() time.Time { return now })

	id := &identity.Identity{ID: "2", Name: "John Doe", Email: "john@example.com", Role: identity.RoleUser}
	tok, exp, err := iss.Issue(id, identity.SelectedProvider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", exp)
	}

	got, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Identity.ID != "2" || got.Identity.Role != identity.RoleUser {
		t.Fatalf("identity mismatch: %+v", got.Identity)
	}
	if got.Selected != identity.SelectedProvider {
		t.Fatalf("selected role mismatch: %q", got.Selected)
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	iss := NewIssuer("test_secret", "bookit", time.Minute).WithClock(func() time.Time { return now })
	tok, _, err := iss.Issue(&identity.Identity{ID: "2", Role: identity.RoleUser}, identity.SelectedNone)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := now.Add(2 * time.Minute)
	iss.WithClock(func() time.Time { return later })
	if _, err := iss.Verify(tok); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestVerify_WrongSecretAndAlgorithm(t *testing.T) {
	now := time.Unix(1700000000, 0)
	iss := NewIssuer("test_secret", "bookit", time.Hour).WithClock(func() time.Time { return now })

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Subject:   "1",
			Issuer:    "bookit",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "admin",
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other_secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := iss.Verify(forged); err == nil {
		t.Fatalf("expected signature error")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := iss.Verify(none); err == nil {
		t.Fatalf("expected alg none rejected")
	}
}

func TestRevoke(t *testing.T) {
	iss := NewIssuer("test_secret", "bookit", time.Hour)
	tok, exp, err := iss.Issue(&identity.Identity{ID: "3", Role: identity.RoleUser}, identity.SelectedNone)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	v, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	iss.Revoke(v.TokenID, exp)
	if _, err := iss.Verify(tok); err == nil {
		t.Fatalf("expected revoked token rejected")
	}
}
