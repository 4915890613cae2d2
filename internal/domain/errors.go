package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, unknown stop type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrMinStops is returned when a stop deletion would leave a trip with fewer
// than two stops. Unlike blocked moves, which are silent no-ops, this is a
// caller-visible precondition failure. Handlers should map it to HTTP 409.
var ErrMinStops = errors.New("a trip must keep at least two stops")
