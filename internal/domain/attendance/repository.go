package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record. A unique constraint on
	// (employee_id, date) backs the duplicate check-in guard.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for an employee on one
	// date. Used by the duplicate check-in guard; returns nil when the
	// day has no record yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update updates an existing attendance record.
	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployeeAndMonth retrieves all records for an employee inside
	// one month, ordered by date. The payroll aggregator reads months
	// through this.
	ListByEmployeeAndMonth(ctx context.Context, employeeID string, month, year int) ([]Attendance, error)

	// List retrieves attendance records with filters and pagination.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
