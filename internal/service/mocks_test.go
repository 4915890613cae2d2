package service_test

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/geocode"
	"github.com/dkowalski/truck-logbook/internal/repo"
	"github.com/dkowalski/truck-logbook/internal/service"
)

// Hand-written func-field test doubles for the repo interfaces. Unset fields
// return zero values so tests only wire what they exercise.

type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.create != nil {
		return m.create(ctx, trip)
	}
	return trip, nil
}
func (m *mockTripRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Trip{ID: id, TenantID: tenantID}, nil
}
func (m *mockTripRepo) ListPaged(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if m.listPaged != nil {
		return m.listPaged(ctx, tenantID, p)
	}
	return nil, 0, nil
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.update != nil {
		return m.update(ctx, trip)
	}
	return trip, nil
}
func (m *mockTripRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockCounterRepo struct {
	next func(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

func (m *mockCounterRepo) Next(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if m.next != nil {
		return m.next(ctx, tenantID)
	}
	return 1, nil
}

var _ repo.CounterRepo = (*mockCounterRepo)(nil)

type mockStopRepo struct {
	create        func(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	getByID       func(ctx context.Context, tenantID, tripID, stopID uuid.UUID) (domain.Stop, error)
	listByTripID  func(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Stop, error)
	update        func(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	delete        func(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error
	replaceOrders func(ctx context.Context, tenantID, tripID uuid.UUID, stops []domain.Stop) error
}

func (m *mockStopRepo) Create(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	if m.create != nil {
		return m.create(ctx, tenantID, stop)
	}
	stop.ID = uuid.New()
	return stop, nil
}
func (m *mockStopRepo) GetByID(ctx context.Context, tenantID, tripID, stopID uuid.UUID) (domain.Stop, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, tripID, stopID)
	}
	return domain.Stop{ID: stopID, TripID: tripID}, nil
}
func (m *mockStopRepo) ListByTripID(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Stop, error) {
	if m.listByTripID != nil {
		return m.listByTripID(ctx, tenantID, tripID)
	}
	return nil, nil
}
func (m *mockStopRepo) Update(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	if m.update != nil {
		return m.update(ctx, tenantID, stop)
	}
	return stop, nil
}
func (m *mockStopRepo) Delete(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, tripID, stopID)
	}
	return nil
}
func (m *mockStopRepo) ReplaceOrders(ctx context.Context, tenantID, tripID uuid.UUID, stops []domain.Stop) error {
	if m.replaceOrders != nil {
		return m.replaceOrders(ctx, tenantID, tripID, stops)
	}
	return nil
}

var _ repo.StopRepo = (*mockStopRepo)(nil)

type mockLocationRepo struct {
	create         func(ctx context.Context, loc domain.Location) (domain.Location, error)
	getByID        func(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error)
	search         func(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error)
	update         func(ctx context.Context, loc domain.Location) (domain.Location, error)
	delete         func(ctx context.Context, tenantID, id uuid.UUID) error
	setCoordinates func(ctx context.Context, tenantID, id uuid.UUID, lat, lon float64) error
}

func (m *mockLocationRepo) Create(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if m.create != nil {
		return m.create(ctx, loc)
	}
	loc.ID = uuid.New()
	return loc, nil
}
func (m *mockLocationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Location{ID: id, TenantID: tenantID}, nil
}
func (m *mockLocationRepo) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error) {
	if m.search != nil {
		return m.search(ctx, tenantID, query)
	}
	return nil, nil
}
func (m *mockLocationRepo) Update(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if m.update != nil {
		return m.update(ctx, loc)
	}
	return loc, nil
}
func (m *mockLocationRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}
func (m *mockLocationRepo) SetCoordinates(ctx context.Context, tenantID, id uuid.UUID, lat, lon float64) error {
	if m.setCoordinates != nil {
		return m.setCoordinates(ctx, tenantID, id, lat, lon)
	}
	return nil
}

var _ repo.LocationRepo = (*mockLocationRepo)(nil)

type mockExpenseRepo struct {
	create         func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	getByID        func(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error)
	listByTrip     func(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error)
	update         func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete         func(ctx context.Context, tenantID, id uuid.UUID) error
	setReceiptPath func(ctx context.Context, tenantID, id uuid.UUID, path string) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	if m.create != nil {
		return m.create(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error) {
	if m.getByID != nil {
		return m.getByID(ctx, tenantID, id)
	}
	return domain.Expense{ID: id, TenantID: tenantID}, nil
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tenantID, tripID)
	}
	return nil, nil
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	if m.update != nil {
		return m.update(ctx, e)
	}
	return e, nil
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return nil
}
func (m *mockExpenseRepo) SetReceiptPath(ctx context.Context, tenantID, id uuid.UUID, path string) error {
	if m.setReceiptPath != nil {
		return m.setReceiptPath(ctx, tenantID, id, path)
	}
	return nil
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

type mockVendorRepo struct {
	upsert func(ctx context.Context, tenantID uuid.UUID, name string) (domain.Vendor, error)
	list   func(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error)
}

func (m *mockVendorRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.Vendor, error) {
	if m.upsert != nil {
		return m.upsert(ctx, tenantID, name)
	}
	return domain.Vendor{ID: uuid.New(), TenantID: tenantID, Name: name}, nil
}
func (m *mockVendorRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error) {
	if m.list != nil {
		return m.list(ctx, tenantID)
	}
	return nil, nil
}

var _ repo.VendorRepo = (*mockVendorRepo)(nil)

type mockExpenseTypeRepo struct {
	upsert func(ctx context.Context, tenantID uuid.UUID, name string) (domain.ExpenseType, error)
	list   func(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error)
}

func (m *mockExpenseTypeRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.ExpenseType, error) {
	if m.upsert != nil {
		return m.upsert(ctx, tenantID, name)
	}
	return domain.ExpenseType{ID: uuid.New(), TenantID: tenantID, Name: name}, nil
}
func (m *mockExpenseTypeRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error) {
	if m.list != nil {
		return m.list(ctx, tenantID)
	}
	return nil, nil
}

var _ repo.ExpenseTypeRepo = (*mockExpenseTypeRepo)(nil)

type mockSettingsRepo struct {
	get    func(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error)
	upsert func(ctx context.Context, s domain.Settings) (domain.Settings, error)
}

func (m *mockSettingsRepo) Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error) {
	if m.get != nil {
		return m.get(ctx, tenantID)
	}
	return domain.Settings{}, domain.ErrNotFound
}
func (m *mockSettingsRepo) Upsert(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	if m.upsert != nil {
		return m.upsert(ctx, s)
	}
	return s, nil
}

var _ repo.SettingsRepo = (*mockSettingsRepo)(nil)

type mockGeocoder struct {
	geocode func(ctx context.Context, address string) (geocode.Result, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	if m.geocode != nil {
		return m.geocode(ctx, address)
	}
	return geocode.Result{}, geocode.ErrNotFound
}

var _ service.Geocoder = (*mockGeocoder)(nil)

type mockReceiptStore struct {
	upload    func(ctx context.Context, tenantID, expenseID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
	signedURL func(objectPath string, ttl time.Duration) string
}

func (m *mockReceiptStore) Upload(ctx context.Context, tenantID, expenseID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if m.upload != nil {
		return m.upload(ctx, tenantID, expenseID, filename, contentType, body)
	}
	return "receipts/test", nil
}
func (m *mockReceiptStore) SignedURL(objectPath string, ttl time.Duration) string {
	if m.signedURL != nil {
		return m.signedURL(objectPath, ttl)
	}
	return "https://objects.test/" + objectPath
}

var _ service.ReceiptStore = (*mockReceiptStore)(nil)
