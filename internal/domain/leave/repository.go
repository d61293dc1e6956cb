package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	// HasApprovedLeave reports whether an approved leave interval covers
	// the date for this employee.
	HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
