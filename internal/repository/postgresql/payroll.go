package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	p.id, p.employee_id, p.period_month, p.period_year,
	p.base_salary, p.total_allowances, p.total_deductions, p.late_deduction,
	p.overtime_hours, p.overtime_amount,
	p.days_present, p.days_late, p.days_absent,
	p.net_salary, p.status, p.paid_at, p.paid_by,
	p.created_at, p.updated_at
`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.TotalAllowances, &rec.TotalDeductions, &rec.LateDeduction,
		&rec.OvertimeHours, &rec.OvertimeAmount,
		&rec.DaysPresent, &rec.DaysLate, &rec.DaysAbsent,
		&rec.NetSalary, &rec.Status, &rec.PaidAt, &rec.PaidBy,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// GetRecordByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records p
		WHERE p.employee_id = $1 AND p.period_month = $2 AND p.period_year = $3
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by period: %w", err)
	}

	return rec, nil
}

// CreateRecordTx implements payroll.PayrollRepository.
func (r *payrollRepository) CreateRecordTx(ctx context.Context, tx pgx.Tx, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year,
			base_salary, total_allowances, total_deductions, late_deduction,
			overtime_hours, overtime_amount,
			days_present, days_late, days_absent,
			net_salary, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		record.EmployeeID,
		record.PeriodMonth,
		record.PeriodYear,
		record.BaseSalary,
		record.TotalAllowances,
		record.TotalDeductions,
		record.LateDeduction,
		record.OvertimeHours,
		record.OvertimeAmount,
		record.DaysPresent,
		record.DaysLate,
		record.DaysAbsent,
		record.NetSalary,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (employee_id, period_month, period_year)
			return payroll.PayrollRecord{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

// CreateDeductionsTx implements payroll.PayrollRepository.
func (r *payrollRepository) CreateDeductionsTx(ctx context.Context, tx pgx.Tx, entries []payroll.DeductionEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO payroll_deductions (
			id, employee_id, period_month, period_year, type, reason, amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, entry := range entries {
		_, err := tx.Exec(ctx, query,
			entry.ID,
			entry.EmployeeID,
			entry.PeriodMonth,
			entry.PeriodYear,
			entry.Type,
			entry.Reason,
			entry.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to create deduction entry: %w", err)
		}
	}

	return nil
}

// GetRecordByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code, e.position_name
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.TotalAllowances, &rec.TotalDeductions, &rec.LateDeduction,
		&rec.OvertimeHours, &rec.OvertimeAmount,
		&rec.DaysPresent, &rec.DaysLate, &rec.DaysAbsent,
		&rec.NetSalary, &rec.Status, &rec.PaidAt, &rec.PaidBy,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.PositionName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

// ListRecords implements payroll.PayrollRepository.
func (r *payrollRepository) ListRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.PeriodMonth != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_month = $%d", argPos))
		args = append(args, *filter.PeriodMonth)
		argPos++
	}
	if filter.PeriodYear != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", argPos))
		args = append(args, *filter.PeriodYear)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM payroll_records p WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code, e.position_name
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE ` + where + `
		ORDER BY p.period_year DESC, p.period_month DESC, e.full_name
		LIMIT ` + fmt.Sprintf("$%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
			&rec.BaseSalary, &rec.TotalAllowances, &rec.TotalDeductions, &rec.LateDeduction,
			&rec.OvertimeHours, &rec.OvertimeAmount,
			&rec.DaysPresent, &rec.DaysLate, &rec.DaysAbsent,
			&rec.NetSalary, &rec.Status, &rec.PaidAt, &rec.PaidBy,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeCode, &rec.PositionName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// MarkPaid implements payroll.PayrollRepository.
func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidBy string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records p SET
			status = $2,
			paid_at = NOW(),
			paid_by = $3,
			updated_at = NOW()
		WHERE p.id = $1
		RETURNING ` + payrollRecordColumns

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, payroll.PayrollStatusPaid, paidBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to mark payroll record paid: %w", err)
	}

	return rec, nil
}

// ListDeductions implements payroll.PayrollRepository.
func (r *payrollRepository) ListDeductions(ctx context.Context, employeeID string, month, year int) ([]payroll.DeductionEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_month, period_year, type, reason, amount, created_at
		FROM payroll_deductions
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var entries []payroll.DeductionEntry
	for rows.Next() {
		var e payroll.DeductionEntry
		err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.PeriodMonth, &e.PeriodYear,
			&e.Type, &e.Reason, &e.Amount, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListAllowances implements payroll.PayrollRepository.
func (r *payrollRepository) ListAllowances(ctx context.Context, employeeID string, month, year int) ([]payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_month, period_year, name, amount, created_at
		FROM payroll_allowances
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []payroll.Allowance
	for rows.Next() {
		var a payroll.Allowance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.PeriodMonth, &a.PeriodYear,
			&a.Name, &a.Amount, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}

	return allowances, rows.Err()
}
