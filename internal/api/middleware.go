package api

import (
	"log"
	"net/http"
	"strings"

	"bookit/internal/identity"
	"bookit/internal/session"
)

// SessionAuth verifies an optional bearer token. Requests without one pass
// through as guests; a present but invalid token is rejected.
func SessionAuth(issuer *session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "expected bearer token")
				return
			}
			v, err := issuer.Verify(strings.TrimSpace(authz[7:]))
			if err != nil {
				log.Printf("[api] session rejected: %v", err)
				WriteError(w, http.StatusUnauthorized, "INVALID_SESSION", "invalid session token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), v)))
		})
	}
}

// RequireCapability guards a route group: guests get 401, signed-in callers
// without the capability get 403.
func RequireCapability(c identity.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
				return
			}
			if !identity.Authorize(id, c) {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
