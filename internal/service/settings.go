package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/repo"
)

// SettingsService implements business logic for per-tenant settings.
type SettingsService struct {
	settings repo.SettingsRepo
}

// NewSettingsService constructs a SettingsService backed by the provided repo.
func NewSettingsService(settings repo.SettingsRepo) *SettingsService {
	return &SettingsService{settings: settings}
}

// defaultSettings is what a tenant sees before ever saving settings.
func defaultSettings(tenantID uuid.UUID) domain.Settings {
	return domain.Settings{
		TenantID:     tenantID,
		DistanceUnit: "mi",
		Currency:     "CAD",
		TaxRate:      0.05,
	}
}

// Get returns the tenant's settings, falling back to the defaults when the
// tenant has never saved any. The fallback is not written; the row appears
// on first explicit save.
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error) {
	result, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return defaultSettings(tenantID), nil
		}
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Get: %w", err)
	}
	return result, nil
}

// Update validates and writes the full settings row, creating it if absent.
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, in domain.Settings) (domain.Settings, error) {
	if in.DistanceUnit != "mi" && in.DistanceUnit != "km" {
		return domain.Settings{}, fmt.Errorf("%w: distance_unit must be \"mi\" or \"km\"", domain.ErrValidation)
	}
	if len(in.Currency) != 3 {
		return domain.Settings{}, fmt.Errorf("%w: currency must be a three-letter code", domain.ErrValidation)
	}
	if in.TaxRate < 0 || in.TaxRate > 1 {
		return domain.Settings{}, fmt.Errorf("%w: tax_rate must be a fraction between 0 and 1", domain.ErrValidation)
	}

	in.TenantID = tenantID
	result, err := s.settings.Upsert(ctx, in)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Update: %w", err)
	}
	return result, nil
}
