// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler sends JSON back to the client. Error responses always
// share one shape so API consumers know what to expect.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/car-rental/internal/rental"
	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/tax"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
//	{ "status": "error", "error": "customer \"42\" not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
// Header() must be set before WriteHeader(), and WriteHeader() before the body.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// StatusCode maps a domain error to its HTTP status:
//
//	storage.ErrNotFound    → 404 Not Found
//	tax.ErrRuleNotFound    → 422 Unprocessable Entity
//	rental.ErrInvalidInput → 400 Bad Request
//	anything else          → 500 Internal Server Error
//
// ─────────────────────────────────────────────────────────────────────────────
func StatusCode(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tax.ErrRuleNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, rental.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status StatusCode picks for it.
func Error(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusCode(err), GeneralError(err))
}

// ValidationError converts validator.FieldError values into a single
// human-readable Response, e.g.
//
//	{ "status": "error", "error": "field NumberOfDays must be greater than 0" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "gt":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
