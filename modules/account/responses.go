package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// jsonResponse is the envelope for every JSON body this module writes.
type jsonResponse struct {
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body jsonResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service sentinels onto HTTP statuses. Unknown email and
// wrong password intentionally share one 401 body so responses cannot be
// used to probe which emails are registered.
func writeError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		details := make(map[string][]string, len(verr.Fields()))
		for _, field := range verr.Fields() {
			details[field] = verr.Get(field)
		}
		writeJSON(w, http.StatusUnprocessableEntity, jsonResponse{
			Error: &errorDetail{Code: "validation_error", Message: "invalid input", Details: details},
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, jsonResponse{
			Error: &errorDetail{Code: "email_exists", Message: "email already registered"},
		})
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, jsonResponse{
			Error: &errorDetail{Code: "invalid_credentials", Message: "invalid email or password"},
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, jsonResponse{
			Error: &errorDetail{Code: "unauthenticated", Message: "not authenticated"},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, jsonResponse{
			Error: &errorDetail{Code: "internal_error", Message: "something went wrong"},
		})
	}
}
