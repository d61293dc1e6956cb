package payroll

import "context"

// PayrollService aggregates one employee month into an immutable payroll
// record.
type PayrollService interface {
	// Generate computes and persists the record for one
	// (employee, month, year). Atomic: deduction rows and the record are
	// written in one transaction, and a duplicate period fails with
	// ErrPayrollAlreadyExists before anything is written.
	Generate(ctx context.Context, req GenerateRequest) (PayrollRecordResponse, error)

	// GenerateAll runs Generate for every active employee, skipping
	// periods that already have a record.
	GenerateAll(ctx context.Context, month, year int) ([]PayrollRecordResponse, error)

	// GetRecord retrieves a record by ID.
	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)

	// ListRecords retrieves records with filters.
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)

	// MarkPaid transitions a record to PAID.
	MarkPaid(ctx context.Context, id string, paidBy string) (PayrollRecordResponse, error)

	// ListDeductions returns the audit breakdown for one employee period.
	ListDeductions(ctx context.Context, employeeID string, month, year int) ([]DeductionEntryResponse, error)
}
