package overtime

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Request is an explicit overtime interval filed by a SHIFT employee.
// It is independent of the attendance record: the tiered calculator prices
// the interval directly instead of deriving it from a check-out delta.
type Request struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Start      time.Time
	End        time.Time
	Status     RequestStatus
	Reason     *string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmployeeName *string
}
