package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	PositionName     *string
	WorkScheduleType ScheduleType
	BaseSalary       decimal.Decimal
	HourlyRate       decimal.Decimal
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// ScheduleType decides which overtime model applies: NON_SHIFT employees
// accrue raw minutes from their check-out, SHIFT employees file explicit
// overtime requests priced by the tiered calculator.
type ScheduleType string

const (
	ScheduleTypeShift    ScheduleType = "SHIFT"
	ScheduleTypeNonShift ScheduleType = "NON_SHIFT"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)
