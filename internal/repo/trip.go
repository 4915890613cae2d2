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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID, scoped to the tenant.
	// Returns domain.ErrNotFound if no trip with that ID exists for the tenant.
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips ordered by date descending and the
	// total count for the tenant.
	ListPaged(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, tenant_id, number, trip_date, expected_miles, actual_miles, revenue, notes, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (tenant_id, number, trip_date, expected_miles, actual_miles, revenue, notes)
		VALUES (@tenant_id, @number, @trip_date, @expected_miles, @actual_miles, @revenue, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"tenant_id":      trip.TenantID,
		"number":         trip.Number,
		"trip_date":      trip.Date,
		"expected_miles": trip.ExpectedMiles, // nil becomes NULL
		"actual_miles":   trip.ActualMiles,
		"revenue":        trip.Revenue,
		"notes":          trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE tenant_id = @tenant_id AND id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of trips ordered by date descending (most recent
// first), plus the total row count for pagination metadata.
func (r *pgTripRepo) ListPaged(ctx context.Context, tenantID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE tenant_id = @tenant_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"tenant_id": tenantID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE tenant_id = @tenant_id
		ORDER BY trip_date DESC, number DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"tenant_id": tenantID,
		"limit":     p.Limit,
		"offset":    p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}
	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET trip_date      = @trip_date,
		    expected_miles = @expected_miles,
		    actual_miles   = @actual_miles,
		    revenue        = @revenue,
		    notes          = @notes,
		    updated_at     = now()
		WHERE tenant_id = @tenant_id AND id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"tenant_id":      trip.TenantID,
		"id":             trip.ID,
		"trip_date":      trip.Date,
		"expected_miles": trip.ExpectedMiles,
		"actual_miles":   trip.ActualMiles,
		"revenue":        trip.Revenue,
		"notes":          trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		tenantID pgtype.UUID
		date     pgtype.Date
	)

	err := s.Scan(&id, &tenantID, &t.Number, &date, &t.ExpectedMiles, &t.ActualMiles,
		&t.Revenue, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.TenantID = uuid.UUID(tenantID.Bytes)
	t.Date = date.Time
	return t, nil
}
