package leave

import "time"

// ApprovedLeave is an already-approved leave interval maintained by the
// external leave workflow. The attendance service only checks whether a
// date is covered.
type ApprovedLeave struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  string
	CreatedAt  time.Time
}
