package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"bookit/internal/apperror"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError maps apperror kinds onto HTTP statuses. Unauthorized is 401
// for guests and 403 for a signed-in caller lacking the capability.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr apperror.ValidationError
		cerr apperror.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, verr.Code, verr.Message)
	case errors.Is(err, apperror.ErrValidation):
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, apperror.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, apperror.ErrUnauthorized):
		if IdentityFromContext(r.Context()) == nil {
			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
			return
		}
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "not allowed")
	case errors.Is(err, apperror.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, apperror.ErrInvalidStateTransition):
		WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", "booking is no longer pending")
	case errors.As(err, &cerr):
		WriteError(w, http.StatusConflict, cerr.Code, cerr.Message)
	case errors.Is(err, apperror.ErrConflict):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		log.Printf("[api] %s %s failed: %v", r.Method, r.URL.Path, err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

const maxBodyBytes = 1 << 20

// ReadJSON decodes a request body into dst and writes a 400 on failure.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "request body is required")
			return false
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return false
	}
	return true
}
