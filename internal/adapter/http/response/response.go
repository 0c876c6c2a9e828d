// Package response writes JSON bodies and translates domain errors into
// HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
)

type errorBody struct {
	Error   string `json:"error"`
	Partial bool   `json:"partial,omitempty"`
	Step    string `json:"step,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err with the status StatusFor picks. Internal failures are
// not echoed to the client, and identity failures carry only their code's
// message.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := errorBody{Error: err.Error()}

	var partial *domain.PartialFailureError
	var authErr *domain.AuthError
	switch {
	case errors.As(err, &partial):
		body = errorBody{Error: "operation was only partially applied", Partial: true, Step: partial.Step}
	case status == http.StatusInternalServerError:
		body.Error = "internal server error"
	case errors.As(err, &authErr):
		body.Error = authErr.Message()
	}
	JSON(w, status, body)
}

func StatusFor(err error) int {
	if errors.Is(err, domain.ErrPartialFailure) {
		return http.StatusInternalServerError
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Code {
		case domain.AuthEmailInUse:
			return http.StatusConflict
		case domain.AuthInvalidEmail, domain.AuthWeakPassword:
			return http.StatusBadRequest
		case domain.AuthAccountDisabled:
			return http.StatusForbidden
		case domain.AuthInvalidCredentials, domain.AuthNoCurrentUser:
			return http.StatusUnauthorized
		default:
			return http.StatusInternalServerError
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
