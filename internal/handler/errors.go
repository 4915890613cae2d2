package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

// errMissingTenant means a data route was reached without the tenant
// middleware having run. Mapped to 500: it is a wiring bug, not client error.
var errMissingTenant = errors.New("tenant missing from request context")

// ErrorResponse is the uniform error body for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain sentinel errors onto HTTP statuses:
//
//	ErrNotFound   -> 404
//	ErrMinStops   -> 409 (structural precondition, not a validation slip)
//	ErrValidation -> 422
//	anything else -> 500 with a generic message, details stay in the log
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound,
			ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrMinStops):
		writeJSON(w, http.StatusConflict,
			ErrorResponse{Error: ErrorDetail{Code: "min_stops", Message: domain.ErrMinStops.Error()}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity,
			ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	default:
		writeJSON(w, http.StatusInternalServerError,
			ErrorResponse{Error: ErrorDetail{Code: "internal", Message: "internal server error"}})
	}
}

// writeBadRequest reports a request rejected before reaching the service
// layer (malformed body, bad path parameter).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest,
		ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}})
}

// unwrapMessage strips the call-site prefixes from a wrapped sentinel error,
// e.g. "service.TripService.Create: validation error: date is required"
// becomes "date is required".
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, marker := range []string{"validation error: ", "not found: "} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
