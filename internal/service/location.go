package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/geocode"
	"github.com/dkowalski/truck-logbook/internal/repo"
)

// Geocoder resolves an address to coordinates. *geocode.Client satisfies it
// in production; tests supply a mock.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geocode.Result, error)
}

// LocationService implements business logic for saved locations.
//
// Geocoding is strictly best-effort: a location write always succeeds
// regardless of what the geocoder does, and coordinates arrive (or don't)
// after the fact via a partial update. Address edits are debounced per
// location so a burst of keystroke-sized updates costs one geocoder call,
// not many.
type LocationService struct {
	locations repo.LocationRepo
	geo       Geocoder
	debounce  *geocode.Debouncer
	logger    *slog.Logger
}

// NewLocationService constructs a LocationService. geo may be nil when no
// geocoder is configured; locations then simply never gain coordinates.
func NewLocationService(locations repo.LocationRepo, geo Geocoder, debounceQuiet time.Duration, logger *slog.Logger) *LocationService {
	return &LocationService{
		locations: locations,
		geo:       geo,
		debounce:  geocode.NewDebouncer(debounceQuiet),
		logger:    logger,
	}
}

// Create validates and persists a new location, then kicks off a background
// coordinate lookup. The create itself never waits on the geocoder.
func (s *LocationService) Create(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error) {
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}

	loc.TenantID = tenantID
	created, err := s.locations.Create(ctx, loc)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Create: %w", err)
	}

	s.scheduleRefresh(created)
	return created, nil
}

// GetByID returns a single location by ID, scoped to the tenant.
func (s *LocationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error) {
	result, err := s.locations.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.GetByID: %w", err)
	}
	return result, nil
}

// Search returns locations matching the query for the type-ahead picker.
// An empty query matches everything (up to the repo's row cap).
func (s *LocationService) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error) {
	locations, err := s.locations.Search(ctx, tenantID, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.Search: %w", err)
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	return locations, nil
}

// Update validates and persists changes to a location. When the address
// changed, a debounced coordinate refresh is scheduled; rapid successive
// edits collapse into a single geocoder call for the final address.
func (s *LocationService) Update(ctx context.Context, tenantID uuid.UUID, loc domain.Location) (domain.Location, error) {
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}

	loc.TenantID = tenantID
	prior, err := s.locations.GetByID(ctx, tenantID, loc.ID)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Update: %w", err)
	}

	updated, err := s.locations.Update(ctx, loc)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Update: %w", err)
	}

	if updated.Address != prior.Address {
		s.scheduleRefresh(updated)
	}
	return updated, nil
}

// Delete removes a location. Stops referencing it keep their copied name and
// address; the database nulls the link.
func (s *LocationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.locations.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("service.LocationService.Delete: %w", err)
	}
	return nil
}

// Close cancels any pending coordinate refresh.
func (s *LocationService) Close() {
	s.debounce.Stop()
}

// scheduleRefresh queues a debounced, best-effort coordinate lookup.
// Debouncing is keyed by location ID, so a burst of edits to one location
// collapses into one lookup while edits to other locations stay untouched.
// Failures are logged and forgotten; a missing coordinate pair is a normal
// state, not an error the caller sees.
func (s *LocationService) scheduleRefresh(loc domain.Location) {
	if s.geo == nil || strings.TrimSpace(loc.Address) == "" {
		return
	}

	s.debounce.Call(loc.ID.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := s.geo.Geocode(ctx, loc.Address)
		if err != nil {
			if !errors.Is(err, geocode.ErrNotFound) {
				s.logger.Warn("geocode refresh failed",
					"location_id", loc.ID, "error", err)
			}
			return
		}
		if err := s.locations.SetCoordinates(ctx, loc.TenantID, loc.ID, res.Lat, res.Lon); err != nil {
			s.logger.Warn("coordinate write failed",
				"location_id", loc.ID, "error", err)
		}
	})
}

func validateLocation(loc domain.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return nil
}
