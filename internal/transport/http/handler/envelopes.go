package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tasktrack-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps register/login responses.
type AuthEnvelope struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    *domain.User `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// UserEnvelope wraps current-user responses.
type UserEnvelope struct {
	User *domain.User `json:"user"`
}

// ExposeInternalErrors controls whether raw internal error messages reach the
// client. Left false in production.
var ExposeInternalErrors = false

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpStatus maps a domain sentinel to its HTTP status code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrNoCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrNotVerified):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		// ErrEmailDelivery and anything unexpected.
		return http.StatusInternalServerError
	}
}

// httpError translates a service error into a JSON error response. Internal
// error detail is redacted unless ExposeInternalErrors is set.
func httpError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !ExposeInternalErrors {
		if errors.Is(err, domain.ErrEmailDelivery) {
			msg = "could not send email"
		} else {
			msg = "internal server error"
		}
	}
	writeError(w, status, msg)
}
