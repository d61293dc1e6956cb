package overtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	"github.com/shopspring/decimal"
)

type OvertimeServiceImpl struct {
	rules workcal.Rules
	calc  *Calculator
	overtime.RequestRepository
	employee.EmployeeRepository

	now func() time.Time
}

func NewOvertimeService(
	rules workcal.Rules,
	calc *Calculator,
	requestRepo overtime.RequestRepository,
	employeeRepo employee.EmployeeRepository,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		rules:              rules,
		calc:               calc,
		RequestRepository:  requestRepo,
		EmployeeRepository: employeeRepo,
		now:                time.Now,
	}
}

// Submit implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Submit(ctx context.Context, req overtime.SubmitRequest) (overtime.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RequestResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return overtime.RequestResponse{}, employee.ErrEmployeeNotFound
		}
		return overtime.RequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	// Request-based overtime exists for shift schedules only; check-out
	// employees accrue raw minutes through attendance instead.
	if emp.WorkScheduleType != employee.ScheduleTypeShift {
		return overtime.RequestResponse{}, overtime.ErrNotShiftEmployee
	}

	date, start, end, err := s.parseInterval(req.Date, req.Start, req.End)
	if err != nil {
		return overtime.RequestResponse{}, err
	}

	request := overtime.Request{
		EmployeeID: emp.ID,
		Date:       date,
		Start:      start,
		End:        end,
		Status:     overtime.RequestStatusPending,
		Reason:     req.Reason,
	}

	created, err := s.RequestRepository.Create(ctx, request)
	if err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return s.mapRequestToResponse(created), nil
}

// Approve implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Approve(ctx context.Context, id string, adminID string) (overtime.RequestResponse, error) {
	return s.review(ctx, id, adminID, overtime.RequestStatusApproved, nil)
}

// Reject implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Reject(ctx context.Context, id string, adminID string, reason string) (overtime.RequestResponse, error) {
	return s.review(ctx, id, adminID, overtime.RequestStatusRejected, &reason)
}

func (s *OvertimeServiceImpl) review(ctx context.Context, id, adminID string, status overtime.RequestStatus, reason *string) (overtime.RequestResponse, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, overtime.ErrRequestNotFound) {
			return overtime.RequestResponse{}, overtime.ErrRequestNotFound
		}
		return overtime.RequestResponse{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	if request.Status != overtime.RequestStatusPending {
		return overtime.RequestResponse{}, overtime.ErrRequestAlreadyProcessed
	}

	now := s.now()
	request.Status = status
	request.ReviewedBy = &adminID
	request.ReviewedAt = &now
	if reason != nil {
		request.Reason = reason
	}

	if err := s.RequestRepository.Update(ctx, request); err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to update overtime request: %w", err)
	}

	return s.mapRequestToResponse(request), nil
}

// GetRequest implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetRequest(ctx context.Context, id string) (overtime.RequestResponse, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, overtime.ErrRequestNotFound) {
			return overtime.RequestResponse{}, overtime.ErrRequestNotFound
		}
		return overtime.RequestResponse{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	return s.mapRequestToResponse(request), nil
}

// ListRequests implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListRequests(ctx context.Context, filter overtime.RequestFilter) (overtime.ListRequestResponse, error) {
	requests, total, err := s.RequestRepository.List(ctx, filter)
	if err != nil {
		return overtime.ListRequestResponse{}, fmt.Errorf("failed to list overtime requests: %w", err)
	}

	responses := make([]overtime.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.mapRequestToResponse(r))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return overtime.ListRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}, nil
}

// Estimate implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Estimate(ctx context.Context, employeeID string, req overtime.EstimateRequest) (overtime.EstimateResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.EstimateResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return overtime.EstimateResponse{}, employee.ErrEmployeeNotFound
		}
		return overtime.EstimateResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, checkOut, err := s.parseClock(req.Date, req.CheckOut)
	if err != nil {
		return overtime.EstimateResponse{}, err
	}

	result := s.calc.Tiered(checkOut, date)
	amount := decimal.NewFromFloat(result.PayableOvertimeHours).Mul(emp.HourlyRate).Round(2)

	return overtime.EstimateResponse{
		DayType:          string(result.DayType),
		NormalHours:      result.NormalHours,
		RawOvertimeHours: result.RawOvertimeHours,
		PayableOvertime:  result.PayableOvertimeHours,
		TotalPayable:     result.TotalPayableHours,
		Amount:           amount,
	}, nil
}

func (s *OvertimeServiceImpl) parseClock(dateStr, clockStr string) (date, clock time.Time, err error) {
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	date = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.rules.Location)

	t, err := time.Parse("15:04", clockStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse time: %w", err)
	}
	clock = time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, s.rules.Location)
	return date, clock, nil
}

func (s *OvertimeServiceImpl) parseInterval(dateStr, startStr, endStr string) (date, start, end time.Time, err error) {
	date, start, err = s.parseClock(dateStr, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	_, end, err = s.parseClock(dateStr, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		// An interval crossing midnight ends on the next day; anything
		// else is malformed.
		end = end.AddDate(0, 0, 1)
		if end.After(date.AddDate(0, 0, 1).Add(time.Duration(s.rules.OvernightCapMinute) * time.Minute)) {
			return time.Time{}, time.Time{}, time.Time{}, overtime.ErrEndBeforeStart
		}
	}
	if end.Equal(start) {
		return time.Time{}, time.Time{}, time.Time{}, overtime.ErrEndBeforeStart
	}
	return date, start, end, nil
}

func (s *OvertimeServiceImpl) mapRequestToResponse(r overtime.Request) overtime.RequestResponse {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}

	var reviewedAt *string
	if r.ReviewedAt != nil {
		str := r.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &str
	}

	return overtime.RequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: employeeName,
		Date:         r.Date.Format("2006-01-02"),
		Start:        r.Start.Format("15:04"),
		End:          r.End.Format("15:04"),
		Status:       string(r.Status),
		Reason:       r.Reason,
		ReviewedBy:   r.ReviewedBy,
		ReviewedAt:   reviewedAt,
		PayableHours: s.calc.IntervalPayableHours(r.Start, r.End, r.Date),
	}
}
