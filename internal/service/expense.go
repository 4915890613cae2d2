package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/derive"
	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/repo"
)

// ReceiptStore is the object store for receipt images. *receipts.Store
// satisfies it in production; tests supply a mock.
type ReceiptStore interface {
	Upload(ctx context.Context, tenantID, expenseID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
	SignedURL(objectPath string, ttl time.Duration) string
}

// receiptURLTTL is how long a signed receipt link stays valid. Long enough
// to open on a slow connection at a truck stop, short enough that a leaked
// link goes stale the same day.
const receiptURLTTL = 15 * time.Minute

// CreateExpenseInput is the payload for creating an expense. Vendor and type
// are given by name and upserted, so typing a new vendor on the expense form
// creates it implicitly.
type CreateExpenseInput struct {
	TripID     *uuid.UUID
	VendorName string
	TypeName   string
	Date       time.Time
	Net        float64

	// Tax is optional; when nil it is pre-filled from the tenant's default
	// tax rate applied to Net.
	Tax *float64

	Notes string
}

// ExpenseService implements business logic for expenses: amount
// reconciliation, implicit vendor/type creation, and receipt handling.
type ExpenseService struct {
	expenses repo.ExpenseRepo
	vendors  repo.VendorRepo
	types    repo.ExpenseTypeRepo
	trips    repo.TripRepo
	settings repo.SettingsRepo
	store    ReceiptStore
}

// NewExpenseService constructs an ExpenseService backed by the provided
// repos. store may be nil when no object store is configured; receipt
// operations then fail with a validation error.
func NewExpenseService(expenses repo.ExpenseRepo, vendors repo.VendorRepo, types repo.ExpenseTypeRepo,
	trips repo.TripRepo, settings repo.SettingsRepo, store ReceiptStore) *ExpenseService {
	return &ExpenseService{
		expenses: expenses,
		vendors:  vendors,
		types:    types,
		trips:    trips,
		settings: settings,
		store:    store,
	}
}

// Create validates and persists a new expense. The tax defaults to the
// tenant's configured rate applied to the net amount, and the three amount
// fields are reconciled before the row is written.
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, in CreateExpenseInput) (domain.Expense, error) {
	if in.Date.IsZero() {
		return domain.Expense{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if in.Net < 0 {
		return domain.Expense{}, fmt.Errorf("%w: net must not be negative", domain.ErrValidation)
	}
	if in.Tax != nil && *in.Tax < 0 {
		return domain.Expense{}, fmt.Errorf("%w: tax must not be negative", domain.ErrValidation)
	}

	if in.TripID != nil {
		if _, err := s.trips.GetByID(ctx, tenantID, *in.TripID); err != nil {
			return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: trip: %w", err)
		}
	}

	e := domain.Expense{
		TenantID: tenantID,
		TripID:   in.TripID,
		Date:     in.Date,
		Notes:    in.Notes,
	}

	if name := strings.TrimSpace(in.VendorName); name != "" {
		vendor, err := s.vendors.Upsert(ctx, tenantID, name)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: vendor: %w", err)
		}
		e.VendorID = &vendor.ID
	}
	if name := strings.TrimSpace(in.TypeName); name != "" {
		et, err := s.types.Upsert(ctx, tenantID, name)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: type: %w", err)
		}
		e.TypeID = &et.ID
	}

	amounts := derive.Amounts{}
	amounts.SetNet(in.Net)
	amounts.SetTax(s.resolveTax(ctx, tenantID, in))
	e.Net, e.Tax, e.Total, e.LastEdited = amounts.Net, amounts.Tax, amounts.Total, amounts.LastEdited

	created, err := s.expenses.Create(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return created, nil
}

// resolveTax returns the explicit tax when given, otherwise the tenant's
// default rate applied to net. A tenant with no settings row defaults to
// zero tax.
func (s *ExpenseService) resolveTax(ctx context.Context, tenantID uuid.UUID, in CreateExpenseInput) float64 {
	if in.Tax != nil {
		return *in.Tax
	}
	settings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		return 0
	}
	return in.Net * settings.TaxRate
}

// GetByID returns a single expense by ID, scoped to the tenant.
func (s *ExpenseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error) {
	result, err := s.expenses.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip returns all expenses attached to a trip, ordered by date.
func (s *ExpenseService) ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByTrip(ctx, tenantID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListByTrip: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

// EditAmount applies one user edit to the named amount field and reconciles
// the other two using the stored last-edited direction. The updated
// direction is persisted with the row so the next edit reconciles correctly.
func (s *ExpenseService) EditAmount(ctx context.Context, tenantID, id uuid.UUID, field domain.AmountField, value float64) (domain.Expense, error) {
	switch field {
	case domain.AmountNet, domain.AmountTax, domain.AmountTotal:
	default:
		return domain.Expense{}, fmt.Errorf("%w: unknown amount field %q", domain.ErrValidation, field)
	}
	if value < 0 {
		return domain.Expense{}, fmt.Errorf("%w: %s must not be negative", domain.ErrValidation, field)
	}

	e, err := s.expenses.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.EditAmount: %w", err)
	}

	amounts := derive.Amounts{Net: e.Net, Tax: e.Tax, Total: e.Total, LastEdited: e.LastEdited}
	amounts.Set(field, value)
	e.Net, e.Tax, e.Total, e.LastEdited = amounts.Net, amounts.Tax, amounts.Total, amounts.LastEdited

	updated, err := s.expenses.Update(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.EditAmount: %w", err)
	}
	return updated, nil
}

// Delete removes an expense. The receipt object, if any, is left in the
// store; objects are write-once and cheap, rows are authoritative.
func (s *ExpenseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.expenses.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

// AttachReceipt uploads a receipt image for the expense and records its
// object path. Re-attaching uploads a fresh object and repoints the row.
func (s *ExpenseService) AttachReceipt(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, body io.Reader) error {
	if s.store == nil {
		return fmt.Errorf("%w: receipt storage is not configured", domain.ErrValidation)
	}

	if _, err := s.expenses.GetByID(ctx, tenantID, id); err != nil {
		return fmt.Errorf("service.ExpenseService.AttachReceipt: %w", err)
	}

	path, err := s.store.Upload(ctx, tenantID, id, filename, contentType, body)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.AttachReceipt: %w", err)
	}
	if err := s.expenses.SetReceiptPath(ctx, tenantID, id, path); err != nil {
		return fmt.Errorf("service.ExpenseService.AttachReceipt: %w", err)
	}
	return nil
}

// ReceiptURL returns a signed, time-limited URL for the expense's receipt.
// Returns domain.ErrNotFound when no receipt is attached.
func (s *ExpenseService) ReceiptURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("%w: receipt storage is not configured", domain.ErrValidation)
	}

	e, err := s.expenses.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", fmt.Errorf("service.ExpenseService.ReceiptURL: %w", err)
	}
	if e.ReceiptPath == "" {
		return "", fmt.Errorf("service.ExpenseService.ReceiptURL: no receipt attached: %w", domain.ErrNotFound)
	}
	return s.store.SignedURL(e.ReceiptPath, receiptURLTTL), nil
}

// ListVendors returns the tenant's vendors for the expense form dropdown.
func (s *ExpenseService) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error) {
	vendors, err := s.vendors.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListVendors: %w", err)
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return vendors, nil
}

// ListTypes returns the tenant's expense categories.
func (s *ExpenseService) ListTypes(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error) {
	types, err := s.types.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListTypes: %w", err)
	}
	if types == nil {
		types = []domain.ExpenseType{}
	}
	return types, nil
}
