package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/notification"
	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	"github.com/arka-hr/payroll-backend-go/internal/repository/postgresql"
	overtimeCalc "github.com/arka-hr/payroll-backend-go/internal/service/overtime"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db               *database.DB
	rules            workcal.Rules
	calc             *overtimeCalc.Calculator
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	overtimeRepo     overtime.RequestRepository
	notificationRepo notification.NotificationRepository

	// withTx runs the generation writes atomically. Swapped for a
	// pass-through in tests.
	withTx func(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error
}

func NewPayrollService(
	db *database.DB,
	rules workcal.Rules,
	calc *overtimeCalc.Calculator,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	overtimeRepo overtime.RequestRepository,
	notificationRepo notification.NotificationRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:               db,
		rules:            rules,
		calc:             calc,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		overtimeRepo:     overtimeRepo,
		notificationRepo: notificationRepo,
		withTx:           postgresql.WithTransaction,
	}
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayrollRecordResponse{}, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	// Early duplicate check for a clean error; the unique constraint on
	// (employee_id, period_month, period_year) stays the real guard
	// against concurrent generations.
	_, err = s.payrollRepo.GetRecordByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err == nil {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollAlreadyExists
	}
	if !errors.Is(err, payroll.ErrPayrollNotFound) {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to check existing payroll record: %w", err)
	}

	records, err := s.attendanceRepo.ListByEmployeeAndMonth(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	var requests []overtime.Request
	if emp.WorkScheduleType == employee.ScheduleTypeShift {
		requests, err = s.overtimeRepo.ListApprovedByEmployeeAndMonth(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to list approved overtime requests: %w", err)
		}
	}

	allowances, err := s.payrollRepo.ListAllowances(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to list allowances: %w", err)
	}

	record, deductions := buildPayroll(s.rules, s.calc, emp, records, requests, allowances, req.PeriodMonth, req.PeriodYear)

	// The record insert goes first inside the transaction: a concurrent
	// generation trips the unique constraint before any deduction row is
	// written, so a failed run never leaves orphaned audit entries.
	var created payroll.PayrollRecord
	err = s.withTx(ctx, s.db, func(tx pgx.Tx) error {
		created, err = s.payrollRepo.CreateRecordTx(ctx, tx, record)
		if err != nil {
			return err
		}
		return s.payrollRepo.CreateDeductionsTx(ctx, tx, deductions)
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollAlreadyExists) {
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to persist payroll generation: %w", err)
	}

	// Payslip notification is fire-and-forget: delivery problems must not
	// undo a committed payroll.
	s.notifyPayslip(ctx, emp, created)

	return mapToRecordResponse(created), nil
}

// GenerateAll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateAll(ctx context.Context, month, year int) ([]payroll.PayrollRecordResponse, error) {
	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}

	var responses []payroll.PayrollRecordResponse
	for _, emp := range employees {
		resp, err := s.Generate(ctx, payroll.GenerateRequest{
			EmployeeID:  emp.ID,
			PeriodMonth: month,
			PeriodYear:  year,
		})
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("failed to generate payroll for employee %s: %w", emp.ID, err)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// GetRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return mapToRecordResponse(record), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	records, total, err := s.payrollRepo.ListRecords(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToRecordResponse(r))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string, paidBy string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	if record.Status == payroll.PayrollStatusPaid {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollAlreadyPaid
	}

	updated, err := s.payrollRepo.MarkPaid(ctx, id, paidBy)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to mark payroll as paid: %w", err)
	}

	return mapToRecordResponse(updated), nil
}

// ListDeductions implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListDeductions(ctx context.Context, employeeID string, month, year int) ([]payroll.DeductionEntryResponse, error) {
	entries, err := s.payrollRepo.ListDeductions(ctx, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction entries: %w", err)
	}

	responses := make([]payroll.DeductionEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, payroll.DeductionEntryResponse{
			ID:          e.ID,
			EmployeeID:  e.EmployeeID,
			PeriodMonth: e.PeriodMonth,
			PeriodYear:  e.PeriodYear,
			Type:        string(e.Type),
			Reason:      e.Reason,
			Amount:      e.Amount,
		})
	}

	return responses, nil
}

func (s *PayrollServiceImpl) notifyPayslip(ctx context.Context, emp employee.Employee, record payroll.PayrollRecord) {
	_, err := s.notificationRepo.Create(ctx, notification.Notification{
		EmployeeID: emp.ID,
		Type:       notification.TypePayslipAvailable,
		Title:      "Payslip available",
		Message: fmt.Sprintf("Your payslip for %s %d is ready.",
			time.Month(record.PeriodMonth).String(), record.PeriodYear),
	})
	if err != nil {
		slog.Warn("failed to create payslip notification",
			"employee_id", emp.ID,
			"period_month", record.PeriodMonth,
			"period_year", record.PeriodYear,
			"error", err,
		)
	}
}

// buildPayroll aggregates one employee month into a payroll record and its
// deduction audit rows. Pure: nothing here touches storage.
//
// Deduction rules: every LATE day deducts
// min(dailyRate x 1% x lateMinutes, dailyRate) with its own audit row;
// absences deduct a full dailyRate each, written as one aggregate row.
// Payable overtime is the flat model for check-out employees (raw minutes
// x hourly rate x 1.5) and the tiered valuation of approved requests for
// shift employees. Advances and soft loans are deducted by their own
// workflows and deliberately excluded from totalDeductions here.
func buildPayroll(
	rules workcal.Rules,
	calc *overtimeCalc.Calculator,
	emp employee.Employee,
	records []attendance.Attendance,
	requests []overtime.Request,
	allowances []payroll.Allowance,
	month, year int,
) (payroll.PayrollRecord, []payroll.DeductionEntry) {
	dailyRate := emp.BaseSalary.Div(decimal.NewFromInt(int64(rules.StandardWorkDays)))
	lateRate := decimal.NewFromFloat(rules.LateDeductionPerMin)

	var (
		daysPresent, daysLate, daysAbsent int
		totalOvertimeMinutes              int
		lateDeduction                     = decimal.Zero
		deductions                        []payroll.DeductionEntry
	)

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusOnTime, attendance.StatusOnLeave:
			daysPresent++
		case attendance.StatusLate:
			daysLate++

			amount := dailyRate.Mul(lateRate).Mul(decimal.NewFromInt(int64(rec.LateMinutes)))
			if amount.GreaterThan(dailyRate) {
				amount = dailyRate
			}
			lateDeduction = lateDeduction.Add(amount)
			deductions = append(deductions, payroll.DeductionEntry{
				ID:          uuid.NewString(),
				EmployeeID:  emp.ID,
				PeriodMonth: month,
				PeriodYear:  year,
				Type:        payroll.DeductionTypeLate,
				Reason:      fmt.Sprintf("Late %d minutes on %s", rec.LateMinutes, rec.Date.Format("2006-01-02")),
				Amount:      amount.Round(2),
			})
		case attendance.StatusAbsent:
			daysAbsent++
		}

		totalOvertimeMinutes += rec.OvertimeMinutes
	}

	absenceDeduction := decimal.Zero
	if daysAbsent > 0 {
		absenceDeduction = dailyRate.Mul(decimal.NewFromInt(int64(daysAbsent)))
		deductions = append(deductions, payroll.DeductionEntry{
			ID:          uuid.NewString(),
			EmployeeID:  emp.ID,
			PeriodMonth: month,
			PeriodYear:  year,
			Type:        payroll.DeductionTypeAbsence,
			Reason:      fmt.Sprintf("%d absent day(s) in %d-%02d", daysAbsent, year, month),
			Amount:      absenceDeduction.Round(2),
		})
	}

	var overtimeHours, overtimeAmount decimal.Decimal
	if emp.WorkScheduleType == employee.ScheduleTypeShift {
		payableHours := 0.0
		for _, r := range requests {
			payableHours += calc.IntervalPayableHours(r.Start, r.End, r.Date)
		}
		overtimeHours = decimal.NewFromFloat(payableHours)
		overtimeAmount = overtimeHours.Mul(emp.HourlyRate)
	} else {
		overtimeHours = decimal.NewFromInt(int64(totalOvertimeMinutes)).Div(decimal.NewFromInt(60))
		overtimeAmount = overtimeHours.Mul(emp.HourlyRate).Mul(decimal.NewFromFloat(rules.FlatOvertimeRate))
	}

	totalAllowances := decimal.Zero
	for _, a := range allowances {
		totalAllowances = totalAllowances.Add(a.Amount)
	}

	totalDeductions := lateDeduction.Add(absenceDeduction)
	netSalary := emp.BaseSalary.Sub(totalDeductions).Add(overtimeAmount).Add(totalAllowances)

	record := payroll.PayrollRecord{
		EmployeeID:      emp.ID,
		PeriodMonth:     month,
		PeriodYear:      year,
		BaseSalary:      emp.BaseSalary,
		TotalAllowances: totalAllowances.Round(2),
		TotalDeductions: totalDeductions.Round(2),
		LateDeduction:   lateDeduction.Round(2),
		OvertimeHours:   overtimeHours.Round(2),
		OvertimeAmount:  overtimeAmount.Round(2),
		DaysPresent:     daysPresent,
		DaysLate:        daysLate,
		DaysAbsent:      daysAbsent,
		NetSalary:       netSalary.Round(2),
		Status:          payroll.PayrollStatusPending,
	}

	return record, deductions
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var paidAtStr *string
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employeeName,
		EmployeeCode:    employeeCode,
		PositionName:    r.PositionName,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		BaseSalary:      r.BaseSalary,
		TotalAllowances: r.TotalAllowances,
		TotalDeductions: r.TotalDeductions,
		LateDeduction:   r.LateDeduction,
		OvertimeHours:   r.OvertimeHours,
		OvertimeAmount:  r.OvertimeAmount,
		DaysPresent:     r.DaysPresent,
		DaysLate:        r.DaysLate,
		DaysAbsent:      r.DaysAbsent,
		NetSalary:       r.NetSalary,
		Status:          string(r.Status),
		PaidAt:          paidAtStr,
	}
}
