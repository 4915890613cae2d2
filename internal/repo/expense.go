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

// ExpenseRepo defines the persistence operations for Expenses.
type ExpenseRepo interface {
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error)

	// ListByTrip returns all expenses attached to a trip, ordered by date.
	ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error)

	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// SetReceiptPath records the object-store key of an uploaded receipt.
	SetReceiptPath(ctx context.Context, tenantID, id uuid.UUID, path string) error
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, tenant_id, trip_id, vendor_id, type_id, expense_date,
		net, tax, total, last_edited, receipt_path, notes, created_at, updated_at`

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (tenant_id, trip_id, vendor_id, type_id, expense_date,
			net, tax, total, last_edited, notes)
		VALUES (@tenant_id, @trip_id, @vendor_id, @type_id, @expense_date,
			@net, @tax, @total, @last_edited, @notes)
		RETURNING ` + expenseColumns

	result, err := scanExpense(r.db.QueryRow(ctx, q, expenseArgs(e)))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = @tenant_id AND id = @id`

	result, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tenantID, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = @tenant_id AND trip_id = @trip_id
		ORDER BY expense_date, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: rows: %w", err)
	}
	return expenses, nil
}

func (r *pgExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET trip_id      = @trip_id,
		    vendor_id    = @vendor_id,
		    type_id      = @type_id,
		    expense_date = @expense_date,
		    net          = @net,
		    tax          = @tax,
		    total        = @total,
		    last_edited  = @last_edited,
		    notes        = @notes,
		    updated_at   = now()
		WHERE tenant_id = @tenant_id AND id = @id
		RETURNING ` + expenseColumns

	args := expenseArgs(e)
	args["id"] = e.ID

	result, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgExpenseRepo) SetReceiptPath(ctx context.Context, tenantID, id uuid.UUID, path string) error {
	const q = `
		UPDATE expenses
		SET receipt_path = @path, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id, "path": path})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.SetReceiptPath: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.SetReceiptPath: %w", domain.ErrNotFound)
	}
	return nil
}

func expenseArgs(e domain.Expense) pgx.NamedArgs {
	return pgx.NamedArgs{
		"tenant_id":    e.TenantID,
		"trip_id":      e.TripID,
		"vendor_id":    e.VendorID,
		"type_id":      e.TypeID,
		"expense_date": e.Date,
		"net":          e.Net,
		"tax":          e.Tax,
		"total":        e.Total,
		"last_edited":  string(e.LastEdited),
		"notes":        e.Notes,
	}
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e          domain.Expense
		id         pgtype.UUID
		tenantID   pgtype.UUID
		tripID     pgtype.UUID
		vendorID   pgtype.UUID
		typeID     pgtype.UUID
		date       pgtype.Date
		lastEdited string
	)

	err := s.Scan(&id, &tenantID, &tripID, &vendorID, &typeID, &date,
		&e.Net, &e.Tax, &e.Total, &lastEdited, &e.ReceiptPath, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TenantID = uuid.UUID(tenantID.Bytes)
	if tripID.Valid {
		v := uuid.UUID(tripID.Bytes)
		e.TripID = &v
	}
	if vendorID.Valid {
		v := uuid.UUID(vendorID.Bytes)
		e.VendorID = &v
	}
	if typeID.Valid {
		v := uuid.UUID(typeID.Bytes)
		e.TypeID = &v
	}
	e.Date = date.Time
	e.LastEdited = domain.AmountField(lastEdited)
	return e, nil
}
