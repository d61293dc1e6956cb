package attendance

import "context"

// AttendanceService defines business logic for attendance operations.
type AttendanceService interface {
	// CheckIn records the employee's check-in for today. A rejected day
	// is overwritten; any other existing record is a duplicate.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut records the check-out and captures raw overtime minutes
	// under the current (possibly still unapproved) flags.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Backfill creates a record for a past date on behalf of an employee.
	Backfill(ctx context.Context, req BackfillRequest) (AttendanceResponse, error)

	// ApproveOvertime approves pending overtime/Sunday work and
	// recomputes the payable raw minutes.
	ApproveOvertime(ctx context.Context, req ApproveRequest, adminID string) (AttendanceResponse, error)

	// RejectOvertime rejects pending overtime/Sunday work, clears the
	// check-out and re-opens the day for resubmission.
	RejectOvertime(ctx context.Context, req RejectRequest, adminID string) (AttendanceResponse, error)

	// GetAttendance retrieves a single record by ID.
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves records with filters (admin).
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
