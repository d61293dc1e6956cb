package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	PayrollStatusPending PayrollStatus = "PENDING"
	PayrollStatusPaid    PayrollStatus = "PAID"
)

// PayrollRecord is the immutable monthly result, one per
// (employee, month, year). Generation fails if one already exists.
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	PeriodMonth     int
	PeriodYear      int
	BaseSalary      decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	LateDeduction   decimal.Decimal
	OvertimeHours   decimal.Decimal
	OvertimeAmount  decimal.Decimal
	DaysPresent     int
	DaysLate        int
	DaysAbsent      int
	NetSalary       decimal.Decimal
	Status          PayrollStatus
	PaidAt          *time.Time
	PaidBy          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	PositionName *string
}

type DeductionType string

const (
	DeductionTypeLate     DeductionType = "LATE"
	DeductionTypeAbsence  DeductionType = "ABSENCE"
	DeductionTypeAdvance  DeductionType = "ADVANCE"
	DeductionTypeSoftLoan DeductionType = "SOFTLOAN"
	DeductionTypeOther    DeductionType = "OTHER"
)

// DeductionEntry is an append-only audit row. The aggregator writes one per
// late day and a single aggregate row per month with absences; advance and
// soft-loan rows are written by their own workflows and only read here.
type DeductionEntry struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Type        DeductionType
	Reason      string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Allowance is a pre-approved month-scoped amount maintained by an external
// workflow; the aggregator only sums it.
type Allowance struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Name        string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}
