package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

// SettingsRepo defines the persistence operations for per-tenant settings.
// There is at most one row per tenant; Upsert creates it on first write.
type SettingsRepo interface {
	// Get returns the tenant's settings row, or domain.ErrNotFound when the
	// tenant has never saved settings.
	Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error)

	// Upsert writes the full settings row, creating it if absent.
	Upsert(ctx context.Context, s domain.Settings) (domain.Settings, error)
}

type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

func (r *pgSettingsRepo) Get(ctx context.Context, tenantID uuid.UUID) (domain.Settings, error) {
	const q = `
		SELECT tenant_id, distance_unit, currency, tax_rate, updated_at
		FROM settings
		WHERE tenant_id = @tenant_id`

	result, err := scanSettings(r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID}))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgSettingsRepo) Upsert(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	const q = `
		INSERT INTO settings (tenant_id, distance_unit, currency, tax_rate)
		VALUES (@tenant_id, @distance_unit, @currency, @tax_rate)
		ON CONFLICT (tenant_id) DO UPDATE
		SET distance_unit = EXCLUDED.distance_unit,
		    currency      = EXCLUDED.currency,
		    tax_rate      = EXCLUDED.tax_rate,
		    updated_at    = now()
		RETURNING tenant_id, distance_unit, currency, tax_rate, updated_at`

	args := pgx.NamedArgs{
		"tenant_id":     s.TenantID,
		"distance_unit": s.DistanceUnit,
		"currency":      s.Currency,
		"tax_rate":      s.TaxRate,
	}

	result, err := scanSettings(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Upsert: %w", err)
	}
	return result, nil
}

func scanSettings(s scanner) (domain.Settings, error) {
	var (
		out      domain.Settings
		tenantID pgtype.UUID
	)

	if err := s.Scan(&tenantID, &out.DistanceUnit, &out.Currency, &out.TaxRate, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{}, domain.ErrNotFound
		}
		return domain.Settings{}, err
	}

	out.TenantID = uuid.UUID(tenantID.Bytes)
	return out, nil
}
