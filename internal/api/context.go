package api

import (
	"context"

	"bookit/internal/identity"
	"bookit/internal/session"
)

type ctxKey string

const ctxKeyToken ctxKey = "session"

// WithToken attaches a verified session token to ctx.
func WithToken(ctx context.Context, v *session.Verified) context.Context {
	return context.WithValue(ctx, ctxKeyToken, v)
}

func TokenFromContext(ctx context.Context) *session.Verified {
	v := ctx.Value(ctxKeyToken)
	if v == nil {
		return nil
	}
	t, _ := v.(*session.Verified)
	return t
}

// IdentityFromContext returns the signed-in caller, or nil for a guest.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	t := TokenFromContext(ctx)
	if t == nil {
		return nil
	}
	id := t.Identity
	return &id
}

func SessionFromContext(ctx context.Context) identity.Session {
	t := TokenFromContext(ctx)
	if t == nil {
		return identity.Session{}
	}
	id := t.Identity
	return identity.Session{Identity: &id, Selected: t.Selected}
}
