// Package handler implements the HTTP handlers for the Truck Logbook API.
// All handlers are methods on Server; methods are split into domain-specific
// files (trip.go, stop.go, etc.) but share the same struct so they can
// access its dependencies.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/middleware"
	"github.com/dkowalski/truck-logbook/internal/service"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// The servicer interfaces live here, in the consumer package, so handler
// tests can inject mocks without touching the service layer or a database.

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Summary(ctx context.Context, tenantID, id uuid.UUID) (domain.TripSummary, error)
}

// StopServicer defines the business operations the stop handlers depend on.
type StopServicer interface {
	List(ctx context.Context, tenantID, tripID uuid.UUID) (service.StopList, error)
	InsertAfter(ctx context.Context, tenantID, tripID uuid.UUID, afterOrder int, stop domain.Stop) (domain.Stop, bool, error)
	Remove(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error
	Move(ctx context.Context, tenantID, tripID uuid.UUID, index int, dir tripseq.Direction) (service.StopList, bool, error)
	Update(ctx context.Context, tenantID, tripID, stopID uuid.UUID, in domain.Stop) (domain.Stop, error)
	SetStatus(ctx context.Context, tenantID, tripID, stopID uuid.UUID, status domain.StopStatus) (domain.Stop, error)
}

// LocationServicer defines the business operations the location handlers
// depend on.
type LocationServicer interface {
	Create(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error)
	Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error)
	Update(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ExpenseServicer defines the business operations the expense handlers
// depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, tenantID uuid.UUID, in service.CreateExpenseInput) (domain.Expense, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error)
	ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error)
	EditAmount(ctx context.Context, tenantID, id uuid.UUID, field domain.AmountField, value float64) (domain.Expense, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AttachReceipt(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, body io.Reader) error
	ReceiptURL(ctx context.Context, tenantID, id uuid.UUID) (string, error)
	ListVendors(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error)
	ListTypes(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error)
}

// SettingsServicer defines the business operations the settings handlers
// depend on.
type SettingsServicer interface {
	Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error)
	Update(ctx context.Context, tenantID uuid.UUID, in domain.Settings) (domain.Settings, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips     TripServicer
	stops     StopServicer
	locations LocationServicer
	expenses  ExpenseServicer
	settings  SettingsServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, stops StopServicer, locations LocationServicer,
	expenses ExpenseServicer, settings SettingsServicer) *Server {
	return &Server{
		trips:     trips,
		stops:     stops,
		locations: locations,
		expenses:  expenses,
		settings:  settings,
	}
}

// Routes mounts every API route on the given router. The health check stays
// outside the tenant group; everything else requires the tenant header.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTenantHandler())

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.handleListTrips)
			r.Post("/", s.handleCreateTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Put("/", s.handleUpdateTrip)
				r.Delete("/", s.handleDeleteTrip)
				r.Get("/summary", s.handleTripSummary)
				r.Get("/expenses", s.handleListTripExpenses)

				r.Route("/stops", func(r chi.Router) {
					r.Get("/", s.handleListStops)
					r.Post("/", s.handleInsertStop)

					r.Route("/{stopID}", func(r chi.Router) {
						r.Put("/", s.handleUpdateStop)
						r.Delete("/", s.handleDeleteStop)
						r.Post("/move", s.handleMoveStop)
						r.Put("/status", s.handleSetStopStatus)
					})
				})
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", s.handleSearchLocations)
			r.Post("/", s.handleCreateLocation)

			r.Route("/{locationID}", func(r chi.Router) {
				r.Get("/", s.handleGetLocation)
				r.Put("/", s.handleUpdateLocation)
				r.Delete("/", s.handleDeleteLocation)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", s.handleCreateExpense)

			r.Route("/{expenseID}", func(r chi.Router) {
				r.Get("/", s.handleGetExpense)
				r.Delete("/", s.handleDeleteExpense)
				r.Put("/amount", s.handleEditExpenseAmount)
				r.Post("/receipt", s.handleAttachReceipt)
				r.Get("/receipt", s.handleReceiptURL)
			})
		})

		r.Get("/vendors", s.handleListVendors)
		r.Get("/expense-types", s.handleListExpenseTypes)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
	})
}

// tenantID pulls the tenant set by the middleware. The data routes are all
// mounted behind it, so a miss means a route was wired outside the tenant
// group; callers report it as a server error rather than proceed with a
// zero UUID.
func tenantID(r *http.Request) (uuid.UUID, bool) {
	return middleware.TenantFrom(r.Context())
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
