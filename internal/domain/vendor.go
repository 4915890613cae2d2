package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a payee for expenses and fuel purchases (truck stop chain,
// repair shop). Vendors are tenant-scoped and deduplicated by name.
type Vendor struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseType is a tenant-defined expense category (fuel, repair, scale fee).
// Like vendors, types are deduplicated by name on creation.
type ExpenseType struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
