package booking

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookit/internal/api"
	"bookit/internal/audit"
	"bookit/internal/identity"
)

type Handlers struct {
	Bookings *Manager
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	caller := api.IdentityFromContext(r.Context())
	if caller == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		return
	}
	var req CreateRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	req.UserID = caller.ID

	b, err := h.Bookings.Create(r.Context(), req)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, b)
}

// List serves the booking views:
//   - no query: the caller's own bookings
//   - ?userId=: that user's bookings (self, or a reviewer for anyone)
//   - ?status=pending: the review queue
//   - ?status=approved[&limit=]: approved bookings
//   - ?status=rejected: rejected bookings
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	caller := api.IdentityFromContext(r.Context())
	if caller == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		return
	}
	reviewer := identity.Authorize(caller, identity.CapReviewBookings)
	qs := r.URL.Query()

	var (
		items []Booking
		err   error
	)
	switch status := qs.Get("status"); {
	case status == "":
		userID := qs.Get("userId")
		if userID == "" {
			userID = caller.ID
		}
		if userID != caller.ID && !reviewer {
			api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "not allowed")
			return
		}
		items, err = h.Bookings.ListForUser(r.Context(), userID)
	case !reviewer:
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "not allowed")
		return
	default:
		st, perr := ParseStatus(status)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "STATUS_INVALID", perr.Error())
			return
		}
		limit := 0
		if raw := qs.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				api.WriteError(w, http.StatusBadRequest, "LIMIT_INVALID", "limit must be a non-negative integer")
				return
			}
		}
		switch st {
		case StatusPending:
			items, err = h.Bookings.ListPending(r.Context())
		case StatusApproved:
			items, err = h.Bookings.ListApproved(r.Context(), limit)
		default:
			items, err = h.Bookings.List(r.Context(), Filter{Status: st})
		}
	}
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Get(r.Context(), chi.URLParam(r, "id"), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.History(r.Context(), chi.URLParam(r, "id"), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []audit.Entry{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Approve(r.Context(), chi.URLParam(r, "id"), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Reject(r.Context(), chi.URLParam(r, "id"), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// ForEvent lists an event's bookings for reviewers.
func (h Handlers) ForEvent(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.ListForEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []Booking{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Packages lists the ticket tiers offered on the booking form.
func (h Handlers) Packages(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": Packages()})
}
