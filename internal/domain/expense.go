package domain

import (
	"time"

	"github.com/google/uuid"
)

// AmountField names which of the three reconciled amount fields the user
// touched last. The reconciliation rule in derive.Amounts treats the
// last-touched field as authoritative and recomputes one of the others.
type AmountField string

const (
	AmountNet   AmountField = "net"
	AmountTax   AmountField = "tax"
	AmountTotal AmountField = "total"
)

// Expense is a single money-out record: fuel, repair, or general expense.
// Net, Tax, and Total are kept mutually consistent by the amount
// reconciliation in the expense service; LastEdited records which field the
// user touched most recently so the next edit knows which direction to
// recompute.
type Expense struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	// TripID is nil for expenses not tied to a specific trip.
	TripID *uuid.UUID `json:"trip_id,omitempty"`

	VendorID *uuid.UUID `json:"vendor_id,omitempty"`
	TypeID   *uuid.UUID `json:"type_id,omitempty"`

	Date  time.Time `json:"date"`
	Net   float64   `json:"net"`
	Tax   float64   `json:"tax"`
	Total float64   `json:"total"`

	LastEdited AmountField `json:"last_edited,omitempty"`

	// ReceiptPath is the object-store key of the uploaded receipt image,
	// empty when no receipt is attached. Read access goes through a signed,
	// time-limited URL; the path itself is never served to clients.
	ReceiptPath string `json:"-"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
