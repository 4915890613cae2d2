package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CounterRepo allocates human-facing trip numbers from a per-tenant
// monotonic counter. The core calls Next exactly once per trip creation and
// never touches the counter otherwise.
type CounterRepo interface {
	// Next returns the next trip number for the tenant and advances the
	// counter in the same statement, so concurrent callers can never receive
	// the same number.
	Next(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type pgCounterRepo struct {
	db db
}

// NewCounterRepo constructs a CounterRepo backed by the provided db connection.
func NewCounterRepo(db db) CounterRepo {
	return &pgCounterRepo{db: db}
}

// Next allocates the next number via a single upsert. The row is created
// lazily on a tenant's first trip; the RETURNING arithmetic hands back the
// number just consumed, not the stored next value.
func (r *pgCounterRepo) Next(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	const q = `
		INSERT INTO tenant_counters (tenant_id, next_trip_number)
		VALUES (@tenant_id, 2)
		ON CONFLICT (tenant_id)
		DO UPDATE SET next_trip_number = tenant_counters.next_trip_number + 1
		RETURNING next_trip_number - 1`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.CounterRepo.Next: %w", err)
	}
	return n, nil
}
