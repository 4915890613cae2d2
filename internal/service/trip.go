// Package service contains the business logic for the Truck Logbook API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/derive"
	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the stop repo as well because creating a trip seeds the two
// boundary stops, and the trip summary is derived from the stop list.
type TripService struct {
	trips   repo.TripRepo
	stops   repo.StopRepo
	counter repo.CounterRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, stops repo.StopRepo, counter repo.CounterRepo) *TripService {
	return &TripService{trips: trips, stops: stops, counter: counter}
}

// Create validates and persists a new trip, allocating its human-facing
// number from the tenant's counter and seeding the two boundary stops
// (empty-start first, empty-reposition last) so a fresh trip already
// satisfies the two-stop floor.
func (s *TripService) Create(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	number, err := s.counter.Next(ctx, tenantID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.TenantID = tenantID
	trip.Number = number
	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	seeds := []domain.Stop{
		{TripID: created.ID, Order: 0, Type: domain.StopEmptyStart, Name: "Empty start", Status: domain.StopPending},
		{TripID: created.ID, Order: 1, Type: domain.StopEmptyReposition, Name: "Empty reposition", Status: domain.StopPending},
	}
	for _, seed := range seeds {
		if _, err := s.stops.Create(ctx, tenantID, seed); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: seed stops: %w", err)
		}
	}
	return created, nil
}

// GetByID returns a single trip by ID, scoped to the tenant.
func (s *TripService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of the tenant's trips, most recent first, plus the
// total count for pagination metadata.
func (s *TripService) List(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, tenantID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip. The trip number
// is immutable: whatever the caller sends, the stored number wins.
func (s *TripService) Update(ctx context.Context, tenantID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	trip.TenantID = tenantID
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID. Stops and expenses cascade in the database.
func (s *TripService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Summary returns the trip joined with its stops and the derived totals.
// Everything derived is recomputed from the current stop list on each call;
// total mileage and revenue-per-mile are never stored.
func (s *TripService) Summary(ctx context.Context, tenantID, id uuid.UUID) (domain.TripSummary, error) {
	trip, err := s.trips.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	stops, err := s.stops.ListByTripID(ctx, tenantID, id)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	if stops == nil {
		stops = []domain.Stop{}
	}

	summary := domain.TripSummary{
		Trip:       trip,
		Stops:      stops,
		TotalMiles: derive.TotalMileage(stops),
	}
	if trip.Revenue != nil {
		summary.RevenuePerMile = derive.RevenuePerMile(*trip.Revenue, summary.TotalMiles)
	}
	return summary, nil
}

// validateTrip enforces business rules common to Create and Update.
func validateTrip(trip domain.Trip) error {
	if trip.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if trip.Revenue != nil && *trip.Revenue < 0 {
		return fmt.Errorf("%w: revenue must not be negative", domain.ErrValidation)
	}
	if trip.ExpectedMiles != nil && *trip.ExpectedMiles < 0 {
		return fmt.Errorf("%w: expected_miles must not be negative", domain.ErrValidation)
	}
	return nil
}
