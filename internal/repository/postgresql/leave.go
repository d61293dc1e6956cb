package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/leave"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// HasApprovedLeave implements leave.LeaveRepository.
func (r *leaveRepository) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status = 'APPROVED'
			  AND $2 BETWEEN start_date AND end_date
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return exists, nil
}
