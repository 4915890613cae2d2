package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StopType is the closed enumeration of stop kinds. The two boundary types,
// empty-start and empty-reposition, are position-locked: empty-start always
// occupies order 0 and empty-reposition always occupies the last order.
// Construct values through ParseStopType so invalid strings are rejected at
// the edge instead of being compared ad hoc at every call site.
type StopType string

const (
	StopEmptyStart      StopType = "empty_start"
	StopPickup          StopType = "pickup"
	StopIntermediate    StopType = "intermediate"
	StopTerminal        StopType = "terminal"
	StopDelivery        StopType = "delivery"
	StopEmptyReposition StopType = "empty_reposition"
)

// ParseStopType validates s against the closed enumeration.
// Returns ErrValidation for anything outside it.
func ParseStopType(s string) (StopType, error) {
	switch t := StopType(s); t {
	case StopEmptyStart, StopPickup, StopIntermediate, StopTerminal, StopDelivery, StopEmptyReposition:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown stop type %q", ErrValidation, s)
}

// Boundary reports whether the type is position-locked (first or last).
func (t StopType) Boundary() bool {
	return t == StopEmptyStart || t == StopEmptyReposition
}

// StopStatus is the two-state completion flag for a stop.
type StopStatus string

const (
	StopPending  StopStatus = "pending"
	StopComplete StopStatus = "complete"
)

// ParseStopStatus validates s against the status enumeration.
func ParseStopStatus(s string) (StopStatus, error) {
	switch st := StopStatus(s); st {
	case StopPending, StopComplete:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown stop status %q", ErrValidation, s)
}

// Stop is one waypoint within a trip.
//
// Order is the zero-based position in the trip's stop list. The sequence
// model guarantees order values form a contiguous permutation {0..n-1} after
// every structural operation.
//
// LocationID links to a saved Location. Name and Address are copied from the
// location at selection time and remain independently editable afterwards;
// editing either one detaches the reference (LocationID is cleared, the
// copied text stays).
type Stop struct {
	ID     uuid.UUID `json:"id"`
	TripID uuid.UUID `json:"trip_id"`
	Order  int       `json:"order"`
	Type   StopType  `json:"type"`

	LocationID *uuid.UUID `json:"location_id,omitempty"`
	Name       string     `json:"name"`
	Address    string     `json:"address,omitempty"`

	// Odometer is the truck's reading on arrival. MilesToNext is a manually
	// entered fallback distance to the next stop, used only when an odometer
	// delta is unavailable.
	Odometer    *float64 `json:"odometer,omitempty"`
	MilesToNext *float64 `json:"miles_to_next,omitempty"`

	Status      StopStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ExpectedDate is the scheduling target day (time component ignored).
	// ExpectedTime carries the time of day when one was given; when nil the
	// target defaults to end of day for lateness purposes.
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	ExpectedTime *time.Time `json:"expected_time,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
