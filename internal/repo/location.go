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

// LocationRepo defines the persistence operations for saved Locations.
type LocationRepo interface {
	Create(ctx context.Context, loc domain.Location) (domain.Location, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error)

	// Search returns locations whose name or address contains the query,
	// case-insensitively, ordered by name. Limited to 20 rows; this backs
	// the type-ahead picker, not a report.
	Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error)

	Update(ctx context.Context, loc domain.Location) (domain.Location, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// SetCoordinates writes just the geocoded lat/lon pair. Used by the
	// best-effort geocoding refresh, which must not clobber concurrent field
	// edits with a stale full-row write.
	SetCoordinates(ctx context.Context, tenantID, id uuid.UUID, lat, lon float64) error
}

type pgLocationRepo struct {
	db db
}

// NewLocationRepo constructs a LocationRepo backed by the provided db connection.
func NewLocationRepo(db db) LocationRepo {
	return &pgLocationRepo{db: db}
}

const locationColumns = `id, tenant_id, name, address, lat, lon, created_at, updated_at`

func (r *pgLocationRepo) Create(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const q = `
		INSERT INTO locations (tenant_id, name, address, lat, lon)
		VALUES (@tenant_id, @name, @address, @lat, @lon)
		RETURNING ` + locationColumns

	args := pgx.NamedArgs{
		"tenant_id": loc.TenantID,
		"name":      loc.Name,
		"address":   loc.Address,
		"lat":       loc.Lat,
		"lon":       loc.Lon,
	}

	result, err := scanLocation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgLocationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Location, error) {
	const q = `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE tenant_id = @tenant_id AND id = @id`

	result, err := scanLocation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id}))
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLocationRepo) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]domain.Location, error) {
	const q = `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE tenant_id = @tenant_id
		  AND (name ILIKE '%' || @query || '%' OR address ILIKE '%' || @query || '%')
		ORDER BY name
		LIMIT 20`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "query": query})
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.Search: %w", err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LocationRepo.Search: scan: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.Search: rows: %w", err)
	}
	return locations, nil
}

func (r *pgLocationRepo) Update(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const q = `
		UPDATE locations
		SET name       = @name,
		    address    = @address,
		    lat        = @lat,
		    lon        = @lon,
		    updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id
		RETURNING ` + locationColumns

	args := pgx.NamedArgs{
		"tenant_id": loc.TenantID,
		"id":        loc.ID,
		"name":      loc.Name,
		"address":   loc.Address,
		"lat":       loc.Lat,
		"lon":       loc.Lon,
	}

	result, err := scanLocation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgLocationRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	const q = `DELETE FROM locations WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgLocationRepo) SetCoordinates(ctx context.Context, tenantID, id uuid.UUID, lat, lon float64) error {
	const q = `
		UPDATE locations
		SET lat = @lat, lon = @lon, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	args := pgx.NamedArgs{"tenant_id": tenantID, "id": id, "lat": lat, "lon": lon}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.LocationRepo.SetCoordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LocationRepo.SetCoordinates: %w", domain.ErrNotFound)
	}
	return nil
}

func scanLocation(s scanner) (domain.Location, error) {
	var (
		loc      domain.Location
		id       pgtype.UUID
		tenantID pgtype.UUID
	)

	err := s.Scan(&id, &tenantID, &loc.Name, &loc.Address, &loc.Lat, &loc.Lon,
		&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Location{}, domain.ErrNotFound
		}
		return domain.Location{}, err
	}

	loc.ID = uuid.UUID(id.Bytes)
	loc.TenantID = uuid.UUID(tenantID.Bytes)
	return loc, nil
}
