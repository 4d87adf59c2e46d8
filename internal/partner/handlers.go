package partner

import (
	"log"
	"net/http"

	"bookit/internal/api"
)

type Handlers struct {
	Applications *Service
}

func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !api.ReadJSON(w, r, &req) {
		return
	}
	a, err := h.Applications.Submit(r.Context(), api.IdentityFromContext(r.Context()), req)
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	log.Printf("[partner] application=%s submitted by identity=%s", a.ID, a.UserID)
	api.WriteJSON(w, http.StatusCreated, a)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Applications.List(r.Context(), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []Application{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
