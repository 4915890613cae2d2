package domain

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the per-tenant preference row. Exactly one row per tenant,
// created on first write.
type Settings struct {
	TenantID uuid.UUID `json:"tenant_id"`

	// DistanceUnit is "mi" or "km". Display-only; all stored distances are
	// whatever the driver's odometer reads.
	DistanceUnit string `json:"distance_unit"`

	Currency string `json:"currency"`

	// TaxRate is the default GST/HST rate applied when pre-filling the tax
	// field on a new expense, expressed as a fraction (0.05 for 5%).
	TaxRate float64 `json:"tax_rate"`

	UpdatedAt time.Time `json:"updated_at"`
}
