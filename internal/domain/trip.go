// Package domain contains the core data types for the Truck Logbook application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents one revenue trip from the first empty-start stop to the
// final empty-reposition stop. A trip is the top-level aggregate; stops,
// expenses, and fuel purchases hang off it.
//
// Number is the human-facing trip reference, allocated per tenant from a
// monotonic counter at creation time. It is display identity only; the UUID
// is the real key.
type Trip struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Number   int64     `json:"number"`
	Date     time.Time `json:"date"`

	// ExpectedMiles is the dispatcher's estimate; ActualMiles is usually left
	// nil and derived from odometer readings instead.
	ExpectedMiles *float64 `json:"expected_miles,omitempty"`
	ActualMiles   *float64 `json:"actual_miles,omitempty"`

	// Revenue is the agreed gross pay for the trip, used for revenue-per-mile.
	Revenue *float64 `json:"revenue,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripSummary is a trip joined with the values derived from its stop list.
// It is computed fresh on every read; nothing here is stored.
type TripSummary struct {
	Trip  Trip   `json:"trip"`
	Stops []Stop `json:"stops"`

	// TotalMiles sums the per-leg mileage, treating unavailable legs as zero.
	TotalMiles float64 `json:"total_miles"`

	// RevenuePerMile is nil when it cannot be computed (no revenue recorded or
	// zero total mileage). Clients render a dash, never a zero.
	RevenuePerMile *float64 `json:"revenue_per_mile,omitempty"`
}
