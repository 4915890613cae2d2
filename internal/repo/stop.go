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

// StopRepo defines the persistence operations for Stops.
// All operations are scoped by tenant; single-row reads and writes are
// additionally scoped by trip to enforce ownership.
//
// PgStopRepo (the exported concrete type) also satisfies syncer.StopStore,
// so the synchronizer writes through the same implementation the rest of the
// repo layer uses.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record. The
	// client-side placeholder id is discarded; the DB assigns the real one.
	Create(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop scoped to the given trip.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	GetByID(ctx context.Context, tenantID, tripID, stopID uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops for a trip ordered by position ascending.
	ListByTripID(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Stop, error)

	// Update overwrites the mutable fields of a stop.
	// Returns domain.ErrNotFound if no stop with that ID exists under that trip.
	Update(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given trip.
	Delete(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error

	// ReplaceOrders rewrites the position of every stop for the trip as one
	// batch. The batch runs in an implicit transaction: a failure on any row
	// aborts the whole rewrite, so the store never holds a partial
	// renumbering.
	ReplaceOrders(ctx context.Context, tenantID, tripID uuid.UUID, stops []domain.Stop) error
}

// PgStopRepo is the Postgres implementation of StopRepo.
type PgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) *PgStopRepo {
	return &PgStopRepo{db: db}
}

var _ StopRepo = (*PgStopRepo)(nil)

const stopColumns = `id, trip_id, position, stop_type, location_id, name, address,
		odometer, miles_to_next, status, completed_at, expected_date, expected_time,
		notes, created_at, updated_at`

func (r *PgStopRepo) Create(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (tenant_id, trip_id, position, stop_type, location_id, name, address,
			odometer, miles_to_next, status, completed_at, expected_date, expected_time, notes)
		VALUES (@tenant_id, @trip_id, @position, @stop_type, @location_id, @name, @address,
			@odometer, @miles_to_next, @status, @completed_at, @expected_date, @expected_time, @notes)
		RETURNING ` + stopColumns

	result, err := scanStop(r.db.QueryRow(ctx, q, stopArgs(tenantID, stop)))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *PgStopRepo) GetByID(ctx context.Context, tenantID, tripID, stopID uuid.UUID) (domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE tenant_id = @tenant_id AND trip_id = @trip_id AND id = @id`

	args := pgx.NamedArgs{"tenant_id": tenantID, "trip_id": tripID, "id": stopID}
	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *PgStopRepo) ListByTripID(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE tenant_id = @tenant_id AND trip_id = @trip_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", err)
	}
	return stops, nil
}

func (r *PgStopRepo) Update(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET stop_type     = @stop_type,
		    location_id   = @location_id,
		    name          = @name,
		    address       = @address,
		    odometer      = @odometer,
		    miles_to_next = @miles_to_next,
		    status        = @status,
		    completed_at  = @completed_at,
		    expected_date = @expected_date,
		    expected_time = @expected_time,
		    notes         = @notes,
		    updated_at    = now()
		WHERE tenant_id = @tenant_id AND trip_id = @trip_id AND id = @id
		RETURNING ` + stopColumns

	args := stopArgs(tenantID, stop)
	args["id"] = stop.ID

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *PgStopRepo) Delete(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error {
	const q = `DELETE FROM stops WHERE tenant_id = @tenant_id AND trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "trip_id": tripID, "id": stopID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ReplaceOrders queues one position update per stop into a single pgx batch.
// Stops not yet persisted (placeholder ids) match zero rows harmlessly; the
// create that precedes this call in the insert flow has already assigned
// real ids by the time the batch runs.
func (r *PgStopRepo) ReplaceOrders(ctx context.Context, tenantID, tripID uuid.UUID, stops []domain.Stop) error {
	const q = `
		UPDATE stops
		SET position = @position, updated_at = now()
		WHERE tenant_id = @tenant_id AND trip_id = @trip_id AND id = @id`

	batch := &pgx.Batch{}
	for _, st := range stops {
		batch.Queue(q, pgx.NamedArgs{
			"tenant_id": tenantID,
			"trip_id":   tripID,
			"id":        st.ID,
			"position":  st.Order,
		})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range stops {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("repo.StopRepo.ReplaceOrders: row %d of %d: %w", i+1, len(stops), err)
		}
	}
	return nil
}

// stopArgs maps the writable stop fields into named args shared by Create
// and Update.
func stopArgs(tenantID uuid.UUID, stop domain.Stop) pgx.NamedArgs {
	return pgx.NamedArgs{
		"tenant_id":     tenantID,
		"trip_id":       stop.TripID,
		"position":      stop.Order,
		"stop_type":     string(stop.Type),
		"location_id":   stop.LocationID,
		"name":          stop.Name,
		"address":       stop.Address,
		"odometer":      stop.Odometer,
		"miles_to_next": stop.MilesToNext,
		"status":        string(stop.Status),
		"completed_at":  stop.CompletedAt,
		"expected_date": stop.ExpectedDate,
		"expected_time": stop.ExpectedTime,
		"notes":         stop.Notes,
	}
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st         domain.Stop
		id         pgtype.UUID
		tripID     pgtype.UUID
		locationID pgtype.UUID
		stopType   string
		status     string
		expDate    pgtype.Date
	)

	err := s.Scan(&id, &tripID, &st.Order, &stopType, &locationID, &st.Name, &st.Address,
		&st.Odometer, &st.MilesToNext, &status, &st.CompletedAt, &expDate, &st.ExpectedTime,
		&st.Notes, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.TripID = uuid.UUID(tripID.Bytes)
	if locationID.Valid {
		lid := uuid.UUID(locationID.Bytes)
		st.LocationID = &lid
	}
	st.Type = domain.StopType(stopType)
	st.Status = domain.StopStatus(status)
	if expDate.Valid {
		d := expDate.Time
		st.ExpectedDate = &d
	}
	return st, nil
}
