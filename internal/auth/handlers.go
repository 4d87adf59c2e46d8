// Package auth serves the session endpoints: login, registration, logout,
// acting-role selection and the route gate.
package auth

import (
	"log"
	"net/http"
	"time"

	"bookit/internal/api"
	"bookit/internal/identity"
	"bookit/internal/session"
)

type Handlers struct {
	Identities *identity.Service
	Sessions   *session.Issuer
}

type LoginRequest struct {
	identity.Credentials
	SelectedRole string `json:"selectedRole,omitempty"`
}

type SessionResponse struct {
	Token        string                `json:"token"`
	ExpiresAt    time.Time             `json:"expiresAt"`
	Identity     *identity.Identity    `json:"identity"`
	SelectedRole identity.SelectedRole `json:"selectedRole,omitempty"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	selected, err := identity.ParseSelectedRole(req.SelectedRole)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "ROLE_INVALID", err.Error())
		return
	}

	id, err := h.Identities.Authenticate(r.Context(), req.Credentials)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	h.issue(w, id, selected, http.StatusOK)
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	id, err := h.Identities.Register(r.Context(), req)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	log.Printf("[auth] registered identity=%s", id.ID)
	h.issue(w, id, "", http.StatusCreated)
}

// Logout revokes the presented token. Without one it is a no-op.
func (h Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if t := api.TokenFromContext(r.Context()); t != nil {
		h.Sessions.Revoke(t.TokenID, t.ExpiresAt)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	s := api.SessionFromContext(r.Context())
	if !s.Authenticated() {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		return
	}
	id, err := h.Identities.Get(r.Context(), s.Identity.ID)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"identity":      id,
		"selectedRole":  s.Selected,
		"effectiveRole": s.EffectiveRole(),
		"capabilities":  identity.Capabilities(id.Role),
	})
}

type SelectRoleRequest struct {
	Role string `json:"role"`
}

// SelectRole swaps the acting role. The old token is revoked and a new one
// carrying the selection is issued; the stored role is untouched.
func (h Handlers) SelectRole(w http.ResponseWriter, r *http.Request) {
	t := api.TokenFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		return
	}
	var req SelectRoleRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	selected, err := identity.ParseSelectedRole(req.Role)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "ROLE_INVALID", err.Error())
		return
	}

	id, err := h.Identities.Get(r.Context(), t.Identity.ID)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	h.Sessions.Revoke(t.TokenID, t.ExpiresAt)
	h.issue(w, id, selected, http.StatusOK)
}

// Access answers whether the caller may open ?destination= and where to go
// when not.
func (h Handlers) Access(w http.ResponseWriter, r *http.Request) {
	dest := r.URL.Query().Get("destination")
	if dest == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "destination is required")
		return
	}
	api.WriteJSON(w, http.StatusOK, identity.Gate(api.IdentityFromContext(r.Context()), dest))
}

func (h Handlers) Navigation(w http.ResponseWriter, r *http.Request) {
	s := api.SessionFromContext(r.Context())
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"effectiveRole": s.EffectiveRole(),
		"items":         identity.Navigation(s),
	})
}

func (h Handlers) issue(w http.ResponseWriter, id *identity.Identity, selected identity.SelectedRole, status int) {
	token, exp, err := h.Sessions.Issue(id, selected)
	if err != nil {
		log.Printf("[auth] issue session identity=%s: %v", id.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue session")
		return
	}
	api.WriteJSON(w, status, SessionResponse{
		Token:        token,
		ExpiresAt:    exp,
		Identity:     id,
		SelectedRole: selected,
	})
}
