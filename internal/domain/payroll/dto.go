package payroll

import (
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "period_month",
			Message: "period_month must be between 1 and 12",
		})
	}

	if r.PeriodYear < 2000 || r.PeriodYear > time.Now().Year()+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "period_year",
			Message: "period_year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollFilter struct {
	EmployeeID  *string
	PeriodMonth *int
	PeriodYear  *int
	Status      *PayrollStatus
	Page        int
	Limit       int
}

type PayrollRecordResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	EmployeeCode    string          `json:"employee_code,omitempty"`
	PositionName    *string         `json:"position_name,omitempty"`
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	LateDeduction   decimal.Decimal `json:"late_deduction"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount  decimal.Decimal `json:"overtime_amount"`
	DaysPresent     int             `json:"days_present"`
	DaysLate        int             `json:"days_late"`
	DaysAbsent      int             `json:"days_absent"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	Status          string          `json:"status"`
	PaidAt          *string         `json:"paid_at,omitempty"`
}

type ListPayrollResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
	Records    []PayrollRecordResponse `json:"records"`
}

type DeductionEntryResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Type        string          `json:"type"`
	Reason      string          `json:"reason"`
	Amount      decimal.Decimal `json:"amount"`
}
