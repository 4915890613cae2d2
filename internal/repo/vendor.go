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

// VendorRepo defines the persistence operations for Vendors.
// Vendors are created implicitly from the expense form, so creation is an
// upsert by name: typing an existing vendor's name returns the existing row.
type VendorRepo interface {
	// Upsert inserts a vendor by name, or returns the existing vendor if the
	// name already exists for the tenant.
	Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.Vendor, error)

	// List returns all vendors for the tenant ordered by name.
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error)
}

type pgVendorRepo struct {
	db db
}

// NewVendorRepo constructs a VendorRepo backed by the provided db connection.
func NewVendorRepo(db db) VendorRepo {
	return &pgVendorRepo{db: db}
}

// Upsert inserts a vendor or returns the existing row on name conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when the
// conflict handler skips the insert; without it, RETURNING returns nothing
// on DO NOTHING conflicts.
func (r *pgVendorRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.Vendor, error) {
	const q = `
		INSERT INTO vendors (tenant_id, name)
		VALUES (@tenant_id, @name)
		ON CONFLICT (tenant_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, tenant_id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "name": name})
	result, err := scanVendor(row)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("repo.VendorRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgVendorRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Vendor, error) {
	const q = `
		SELECT id, tenant_id, name, created_at
		FROM vendors
		WHERE tenant_id = @tenant_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID})
	if err != nil {
		return nil, fmt.Errorf("repo.VendorRepo.List: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VendorRepo.List: scan: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VendorRepo.List: rows: %w", err)
	}
	return vendors, nil
}

func scanVendor(s scanner) (domain.Vendor, error) {
	var (
		v        domain.Vendor
		id       pgtype.UUID
		tenantID pgtype.UUID
	)

	if err := s.Scan(&id, &tenantID, &v.Name, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vendor{}, domain.ErrNotFound
		}
		return domain.Vendor{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.TenantID = uuid.UUID(tenantID.Bytes)
	return v, nil
}

// ExpenseTypeRepo defines the persistence operations for expense categories.
// Same upsert-by-name discipline as vendors.
type ExpenseTypeRepo interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.ExpenseType, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error)
}

type pgExpenseTypeRepo struct {
	db db
}

// NewExpenseTypeRepo constructs an ExpenseTypeRepo backed by the provided db connection.
func NewExpenseTypeRepo(db db) ExpenseTypeRepo {
	return &pgExpenseTypeRepo{db: db}
}

func (r *pgExpenseTypeRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) (domain.ExpenseType, error) {
	const q = `
		INSERT INTO expense_types (tenant_id, name)
		VALUES (@tenant_id, @name)
		ON CONFLICT (tenant_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, tenant_id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "name": name})
	result, err := scanExpenseType(row)
	if err != nil {
		return domain.ExpenseType{}, fmt.Errorf("repo.ExpenseTypeRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgExpenseTypeRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.ExpenseType, error) {
	const q = `
		SELECT id, tenant_id, name, created_at
		FROM expense_types
		WHERE tenant_id = @tenant_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseTypeRepo.List: %w", err)
	}
	defer rows.Close()

	types := []domain.ExpenseType{}
	for rows.Next() {
		et, err := scanExpenseType(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseTypeRepo.List: scan: %w", err)
		}
		types = append(types, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseTypeRepo.List: rows: %w", err)
	}
	return types, nil
}

func scanExpenseType(s scanner) (domain.ExpenseType, error) {
	var (
		et       domain.ExpenseType
		id       pgtype.UUID
		tenantID pgtype.UUID
	)

	if err := s.Scan(&id, &tenantID, &et.Name, &et.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExpenseType{}, domain.ErrNotFound
		}
		return domain.ExpenseType{}, err
	}

	et.ID = uuid.UUID(id.Bytes)
	et.TenantID = uuid.UUID(tenantID.Bytes)
	return et, nil
}
