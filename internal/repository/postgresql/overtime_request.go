package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRequestRepository struct {
	db *database.DB
}

func NewOvertimeRequestRepository(db *database.DB) overtime.RequestRepository {
	return &overtimeRequestRepository{db: db}
}

const overtimeRequestColumns = `
	o.id, o.employee_id, o.date, o.start_time, o.end_time,
	o.status, o.reason, o.reviewed_by, o.reviewed_at,
	o.created_at, o.updated_at
`

func scanOvertimeRequest(row pgx.Row) (overtime.Request, error) {
	var req overtime.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Date, &req.Start, &req.End,
		&req.Status, &req.Reason, &req.ReviewedBy, &req.ReviewedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements overtime.RequestRepository.
func (r *overtimeRequestRepository) Create(ctx context.Context, request overtime.Request) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (
			employee_id, date, start_time, end_time, status, reason
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.Date,
		request.Start,
		request.End,
		request.Status,
		request.Reason,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return overtime.Request{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return request, nil
}

// GetByID implements overtime.RequestRepository.
func (r *overtimeRequestRepository) GetByID(ctx context.Context, id string) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeRequestColumns + `, e.full_name
		FROM overtime_requests o
		JOIN employees e ON e.id = o.employee_id
		WHERE o.id = $1
	`

	var req overtime.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.Date, &req.Start, &req.End,
		&req.Status, &req.Reason, &req.ReviewedBy, &req.ReviewedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Request{}, overtime.ErrRequestNotFound
		}
		return overtime.Request{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	return req, nil
}

// Update implements overtime.RequestRepository.
func (r *overtimeRequestRepository) Update(ctx context.Context, request overtime.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests SET
			status = $2,
			reviewed_by = $3,
			reviewed_at = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, request.ID, request.Status, request.ReviewedBy, request.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to update overtime request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrRequestNotFound
	}

	return nil
}

// List implements overtime.RequestRepository.
func (r *overtimeRequestRepository) List(ctx context.Context, filter overtime.RequestFilter) ([]overtime.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("o.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Month > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM o.date) = $%d", argPos))
		args = append(args, filter.Month)
		argPos++
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM o.date) = $%d", argPos))
		args = append(args, filter.Year)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM overtime_requests o WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime requests: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `
		SELECT ` + overtimeRequestColumns + `, e.full_name
		FROM overtime_requests o
		JOIN employees e ON e.id = o.employee_id
		WHERE ` + where + `
		ORDER BY o.date DESC, o.created_at DESC
		LIMIT ` + fmt.Sprintf("$%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.Request
	for rows.Next() {
		var req overtime.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Date, &req.Start, &req.End,
			&req.Status, &req.Reason, &req.ReviewedBy, &req.ReviewedAt,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// ListApprovedByEmployeeAndMonth implements overtime.RequestRepository.
func (r *overtimeRequestRepository) ListApprovedByEmployeeAndMonth(ctx context.Context, employeeID string, month, year int) ([]overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeRequestColumns + `
		FROM overtime_requests o
		WHERE o.employee_id = $1
		  AND o.status = $2
		  AND EXTRACT(MONTH FROM o.date) = $3
		  AND EXTRACT(YEAR FROM o.date) = $4
		ORDER BY o.date
	`

	rows, err := q.Query(ctx, query, employeeID, overtime.RequestStatusApproved, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.Request
	for rows.Next() {
		req, err := scanOvertimeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
