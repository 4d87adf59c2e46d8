package report

import (
	"net/http"

	"bookit/internal/api"
)

type Handlers struct {
	Reports *Service
}

func (h Handlers) MySummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reports.UserSummary(r.Context(), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) AdminSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reports.AdminSummary(r.Context(), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) Revenue(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reports.Revenue(r.Context(), api.IdentityFromContext(r.Context()))
	if err != nil {
		api.WriteDomainError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}
