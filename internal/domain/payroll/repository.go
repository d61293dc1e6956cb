package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type PayrollRepository interface {
	// GetRecordByEmployeePeriod retrieves the record for one
	// (employee, month, year) key. Backs the duplicate-generation guard.
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)

	// CreateRecordTx inserts the payroll record inside tx. The unique
	// constraint on (employee_id, period_month, period_year) surfaces as
	// ErrPayrollAlreadyExists.
	CreateRecordTx(ctx context.Context, tx pgx.Tx, record PayrollRecord) (PayrollRecord, error)

	// CreateDeductionsTx appends deduction audit rows inside tx, so a
	// failed generation never leaves orphaned entries.
	CreateDeductionsTx(ctx context.Context, tx pgx.Tx, entries []DeductionEntry) error

	// GetRecordByID retrieves a record by ID.
	GetRecordByID(ctx context.Context, id string) (PayrollRecord, error)

	// ListRecords retrieves records with filters and pagination.
	ListRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// MarkPaid transitions PENDING -> PAID and stamps paid_at/paid_by.
	MarkPaid(ctx context.Context, id string, paidBy string) (PayrollRecord, error)

	// ListDeductions retrieves the audit rows for one employee period.
	// Includes ADVANCE/SOFTLOAN rows written by external workflows.
	ListDeductions(ctx context.Context, employeeID string, month, year int) ([]DeductionEntry, error)

	// ListAllowances retrieves pre-approved allowance rows for the period.
	ListAllowances(ctx context.Context, employeeID string, month, year int) ([]Allowance, error)
}
