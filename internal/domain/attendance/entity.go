package attendance

import "time"

// Status of one attendance day.
type Status string

const (
	StatusOnTime  Status = "ON_TIME"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
	StatusOnLeave Status = "ON_LEAVE"
)

// ApprovalState tracks the overtime/Sunday-work approval lifecycle as an
// explicit state instead of being inferred from nullable fields or notes.
// A rejected day is re-enterable: a fresh check-in overwrites it.
type ApprovalState string

const (
	ApprovalNone     ApprovalState = "none"
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Attendance is one record per (employee, calendar date).
// Invariant: CheckOut, when present, is never before CheckIn.
// OvertimeMinutes is raw (pre-multiplier); the payroll aggregator applies
// the flat multiplier.
type Attendance struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	CheckIn            *time.Time
	CheckOut           *time.Time
	Status             Status
	LateMinutes        int
	OvertimeMinutes    int
	OvertimeApproved   bool
	SundayWorkApproved bool
	ApprovalState      ApprovalState
	ApprovedBy         *string
	ApprovedAt         *time.Time
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
}
