package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a saved, reusable place (shipper, receiver, truck stop).
// Coordinates are filled in best-effort by the geocoder and may be absent or
// wrong when the address fields conflict; nothing in the system depends on
// them being present.
type Location struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Address  string    `json:"address,omitempty"`
	Lat      *float64  `json:"lat,omitempty"`
	Lon      *float64  `json:"lon,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
