package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/handler"
	"github.com/dkowalski/truck-logbook/internal/middleware"
	"github.com/dkowalski/truck-logbook/internal/service"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// Hand-written func-field test doubles for the servicer interfaces.
// Unset fields return zero values so tests only wire what they exercise.

type mockTripServicer struct {
	create  func(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update  func(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, tenantID, id uuid.UUID) error
	summary func(ctx context.Context, tenantID, id uuid.UUID) (domain.TripSummary, error)
}

func (m *mockTripServicer) Create(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if m.create != nil {
		return m.create(ctx, tenantID, trip)
	}
	return trip, nil
}
func (m *mockTripServicer) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Trip{ID: id, TenantID: tenantID}, nil
}
func (m *mockTripServicer) List(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if m.list != nil {
		return m.list(ctx, tenantID, p)
	}
	return []domain.Trip{}, 0, nil
}
func (m *mockTripServicer) Update(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if m.update != nil {
		return m.update(ctx, tenantID, trip)
	}
	return trip, nil
}
func (m *mockTripServicer) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}
func (m *mockTripServicer) Summary(ctx context.Context, tenantID, id uuid.UUID) (domain.TripSummary, error) {
	if m.summary != nil {
		return m.summary(ctx, tenantID, id)
	}
	return domain.TripSummary{Stops: []domain.Stop{}}, nil
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockStopServicer struct {
	list        func(ctx context.Context, tenantID, tripID uuid.UUID) (service.StopList, error)
	insertAfter func(ctx context.Context, tenantID, tripID uuid.UUID, afterOrder int, stop domain.Stop) (domain.Stop, bool, error)
	remove      func(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error
	move        func(ctx context.Context, tenantID, tripID uuid.UUID, index int, dir tripseq.Direction) (service.StopList, bool, error)
	update      func(ctx context.Context, tenantID, tripID, stopID uuid.UUID, in domain.Stop) (domain.Stop, error)
	setStatus   func(ctx context.Context, tenantID, tripID, stopID uuid.UUID, status domain.StopStatus) (domain.Stop, error)
}

func (m *mockStopServicer) List(ctx context.Context, tenantID, tripID uuid.UUID) (service.StopList, error) {
	if m.list != nil {
		return m.list(ctx, tenantID, tripID)
	}
	return service.StopList{Stops: []domain.Stop{}}, nil
}
func (m *mockStopServicer) InsertAfter(ctx context.Context, tenantID, tripID uuid.UUID, afterOrder int, stop domain.Stop) (domain.Stop, bool, error) {
	if m.insertAfter != nil {
		return m.insertAfter(ctx, tenantID, tripID, afterOrder, stop)
	}
	return stop, true, nil
}
func (m *mockStopServicer) Remove(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error {
	if m.remove != nil {
		return m.remove(ctx, tenantID, tripID, stopID)
	}
	return nil
}
func (m *mockStopServicer) Move(ctx context.Context, tenantID, tripID uuid.UUID, index int, dir tripseq.Direction) (service.StopList, bool, error) {
	if m.move != nil {
		return m.move(ctx, tenantID, tripID, index, dir)
	}
	return service.StopList{Stops: []domain.Stop{}}, false, nil
}
func (m *mockStopServicer) Update(ctx context.Context, tenantID, tripID, stopID uuid.UUID, in domain.Stop) (domain.Stop, error) {
	if m.update != nil {
		return m.update(ctx, tenantID, tripID, stopID, in)
	}
	return in, nil
}
func (m *mockStopServicer) SetStatus(ctx context.Context, tenantID, tripID, stopID uuid.UUID, status domain.StopStatus) (domain.Stop, error) {
	if m.setStatus != nil {
		return m.setStatus(ctx, tenantID, tripID, stopID, status)
	}
	return domain.Stop{ID: stopID, Status: status}, nil
}

var _ handler.StopServicer = (*mockStopServicer)(nil)

type mockLocationServicer struct {
	create  func(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error)
	getByID func(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error)
	search  func(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error)
	update  func(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error)
	delete  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockLocationServicer) Create(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error) {
	if m.create != nil {
		return m.create(ctx, tenantID, loc)
	}
	return loc, nil
}
func (m *mockLocationServicer) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Location{ID: id, TenantID: tenantID}, nil
}
func (m *mockLocationServicer) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error) {
	if m.search != nil {
		return m.search(ctx, tenantID, query)
	}
	return []domain.Location{}, nil
}
func (m *mockLocationServicer) Update(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error) {
	if m.update != nil {
		return m.update(ctx, tenantID, loc)
	}
	return loc, nil
}
func (m *mockLocationServicer) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}

var _ handler.LocationServicer = (*mockLocationServicer)(nil)

type mockExpenseServicer struct {
	create        func(ctx context.Context, tenantID uuid.UUID, in service.CreateExpenseInput) (domain.Expense, error)
	getByID       func(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error)
	listByTrip    func(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error)
	editAmount    func(ctx context.Context, tenantID, id uuid.UUID, field domain.AmountField, value float64) (domain.Expense, error)
	delete        func(ctx context.Context, tenantID, id uuid.UUID) error
	attachReceipt func(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, body io.Reader) error
	receiptURL    func(ctx context.Context, tenantID, id uuid.UUID) (string, error)
	listVendors   func(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error)
	listTypes     func(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error)
}

func (m *mockExpenseServicer) Create(ctx context.Context, tenantID uuid.UUID, in service.CreateExpenseInput) (domain.Expense, error) {
	if m.create != nil {
		return m.create(ctx, tenantID, in)
	}
	return domain.Expense{}, nil
}
func (m *mockExpenseServicer) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Expense{ID: id, TenantID: tenantID}, nil
}
func (m *mockExpenseServicer) ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tenantID, tripID)
	}
	return []domain.Expense{}, nil
}
func (m *mockExpenseServicer) EditAmount(ctx context.Context, tenantID, id uuid.UUID, field domain.AmountField, value float64) (domain.Expense, error) {
	if m.editAmount != nil {
		return m.editAmount(ctx, tenantID, id, field, value)
	}
	return domain.Expense{ID: id}, nil
}
func (m *mockExpenseServicer) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}
func (m *mockExpenseServicer) AttachReceipt(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, body io.Reader) error {
	if m.attachReceipt != nil {
		return m.attachReceipt(ctx, tenantID, id, filename, contentType, body)
	}
	return nil
}
func (m *mockExpenseServicer) ReceiptURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	if m.receiptURL != nil {
		return m.receiptURL(ctx, tenantID, id)
	}
	return "", nil
}
func (m *mockExpenseServicer) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error) {
	if m.listVendors != nil {
		return m.listVendors(ctx, tenantID)
	}
	return []domain.Vendor{}, nil
}
func (m *mockExpenseServicer) ListTypes(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error) {
	if m.listTypes != nil {
		return m.listTypes(ctx, tenantID)
	}
	return []domain.ExpenseType{}, nil
}

var _ handler.ExpenseServicer = (*mockExpenseServicer)(nil)

type mockSettingsServicer struct {
	get    func(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error)
	update func(ctx context.Context, tenantID uuid.UUID, in domain.Settings) (domain.Settings, error)
}

func (m *mockSettingsServicer) Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error) {
	if m.get != nil {
		return m.get(ctx, tenantID)
	}
	return domain.Settings{TenantID: tenantID}, nil
}
func (m *mockSettingsServicer) Update(ctx context.Context, tenantID uuid.UUID, in domain.Settings) (domain.Settings, error) {
	if m.update != nil {
		return m.update(ctx, tenantID, in)
	}
	return in, nil
}

var _ handler.SettingsServicer = (*mockSettingsServicer)(nil)

// testDeps bundles the mocks so tests override only what they need.
type testDeps struct {
	trips     *mockTripServicer
	stops     *mockStopServicer
	locations *mockLocationServicer
	expenses  *mockExpenseServicer
	settings  *mockSettingsServicer
}

// newTestRouter mounts a Server wired to the given mocks on a fresh router.
func newTestRouter(d testDeps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.stops == nil {
		d.stops = &mockStopServicer{}
	}
	if d.locations == nil {
		d.locations = &mockLocationServicer{}
	}
	if d.expenses == nil {
		d.expenses = &mockExpenseServicer{}
	}
	if d.settings == nil {
		d.settings = &mockSettingsServicer{}
	}
	r := chi.NewRouter()
	handler.NewServer(d.trips, d.stops, d.locations, d.expenses, d.settings).Routes(r)
	return r
}

// doRequest performs a request with the tenant header set.
func doRequest(h http.Handler, method, target string, body io.Reader, tenant uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.TenantHeader, tenant.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
