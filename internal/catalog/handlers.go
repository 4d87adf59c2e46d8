package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookit/internal/api"
)

type Handlers struct {
	Catalog *Service
}

func (h Handlers) ListVenues(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Venues(r.Context())
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []Venue{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) GetVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.Catalog.Venue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, v)
}

func (h Handlers) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var req CreateVenueRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	v, err := h.Catalog.CreateVenue(r.Context(), api.IdentityFromContext(r.Context()), req)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, v)
}

func (h Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.EventViews(r.Context(), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	v, err := h.Catalog.EventView(r.Context(), chi.URLParam(r, "id"), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, v)
}

func (h Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	e, err := h.Catalog.CreateEvent(r.Context(), api.IdentityFromContext(r.Context()), req)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, e)
}
