package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/leave"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	overtimeCalc "github.com/arka-hr/payroll-backend-go/internal/service/overtime"
)

type AttendanceServiceImpl struct {
	rules workcal.Rules
	calc  *overtimeCalc.Calculator
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRepository

	now func() time.Time
}

func NewAttendanceService(
	rules workcal.Rules,
	calc *overtimeCalc.Calculator,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		rules:                rules,
		calc:                 calc,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		now:                  time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// dayOf truncates a moment to its calendar date in the configured location.
func (a *AttendanceServiceImpl) dayOf(t time.Time) time.Time {
	local := t.In(a.rules.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.rules.Location)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	nowLocal := a.now().In(a.rules.Location)
	date := a.dayOf(nowLocal)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil && existing.ApprovalState != attendance.ApprovalRejected {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	onLeave, err := a.LeaveRepository.HasApprovedLeave(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check approved leave: %w", err)
	}

	status, lateMinutes := resolveStatus(a.rules, &nowLocal, date, false)
	if onLeave {
		// Approved leave wins over the check-in rules.
		status = attendance.StatusOnLeave
		lateMinutes = 0
	}

	state := attendance.ApprovalNone
	if !onLeave && a.rules.Classify(date).Type == workcal.DayTypeSunday {
		// Sunday presence is unpaid and not counted until an admin acts.
		state = attendance.ApprovalPending
	}

	if existing != nil {
		// The day was rejected; the fresh check-in overwrites it and
		// re-opens the approval cycle.
		existing.CheckIn = &nowLocal
		existing.CheckOut = nil
		existing.Status = status
		existing.LateMinutes = lateMinutes
		existing.OvertimeMinutes = 0
		existing.OvertimeApproved = false
		existing.SundayWorkApproved = false
		existing.ApprovalState = state
		existing.ApprovedBy = nil
		existing.ApprovedAt = nil

		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to overwrite rejected attendance: %w", err)
		}
		return mapAttendanceToResponse(*existing), nil
	}

	record := attendance.Attendance{
		EmployeeID:    emp.ID,
		Date:          date,
		CheckIn:       &nowLocal,
		Status:        status,
		LateMinutes:   lateMinutes,
		ApprovalState: state,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowLocal := a.now().In(a.rules.Location)
	date := a.dayOf(nowLocal)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record == nil || record.CheckIn == nil {
		// An overnight shift checks out after midnight. Until the cap
		// the open record from the previous day is still the active
		// one; past it the previous day is settled and today simply has
		// no check-in.
		if minuteOfDay(nowLocal) <= a.rules.OvernightCapMinute {
			prevDate := date.AddDate(0, 0, -1)
			prev, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, prevDate)
			if err != nil {
				return attendance.AttendanceResponse{}, fmt.Errorf("failed to get previous-day attendance record: %w", err)
			}
			if prev != nil && prev.CheckIn != nil && prev.CheckOut == nil {
				record = prev
				date = prevDate
			}
		}
		if record == nil || record.CheckIn == nil {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	record.CheckOut = &nowLocal

	// Raw minutes are captured under the current flags: they stay 0 until
	// an admin approves, and are recomputed on approval.
	record.OvertimeMinutes = a.calc.RawMinutes(nowLocal, date, record.OvertimeApproved, record.SundayWorkApproved)

	if record.ApprovalState == attendance.ApprovalNone && needsApproval(a.rules, date, record.CheckOut) {
		record.ApprovalState = attendance.ApprovalPending
	}

	if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapAttendanceToResponse(*record), nil
}

// Backfill implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Backfill(ctx context.Context, req attendance.BackfillRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	parsed, _ := time.Parse("2006-01-02", req.Date)
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, a.rules.Location)

	checkIn := a.clockOn(date, req.CheckIn)
	var checkOut *time.Time
	if req.CheckOut != nil {
		t := a.clockOn(date, *req.CheckOut)
		if t.Before(checkIn) {
			// A check-out clock earlier than the check-in is next-day
			// only while it stays inside the overnight window; past the
			// cap it is a data-entry mistake, not a 23-hour shift.
			if minuteOfDay(t) > a.rules.OvernightCapMinute {
				return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
			}
			t = t.AddDate(0, 0, 1)
		}
		checkOut = &t
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	status, lateMinutes := resolveStatus(a.rules, &checkIn, date, false)

	state := attendance.ApprovalNone
	if needsApproval(a.rules, date, checkOut) {
		state = attendance.ApprovalPending
	}

	record := attendance.Attendance{
		EmployeeID:    emp.ID,
		Date:          date,
		CheckIn:       &checkIn,
		CheckOut:      checkOut,
		Status:        status,
		LateMinutes:   lateMinutes,
		ApprovalState: state,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create backfilled attendance: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// ApproveOvertime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveOvertime(ctx context.Context, req attendance.ApproveRequest, adminID string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	switch record.ApprovalState {
	case attendance.ApprovalPending:
	case attendance.ApprovalNone:
		return attendance.AttendanceResponse{}, attendance.ErrNothingToApprove
	default:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyProcessed
	}

	day := a.rules.Classify(record.Date)
	if day.Type == workcal.DayTypeSunday {
		record.SundayWorkApproved = true
		// Approval turns the Sunday presence into a counted work day.
		record.Status = attendance.StatusOnTime
	} else {
		record.OvertimeApproved = true
	}

	if record.CheckOut != nil {
		record.OvertimeMinutes = a.calc.RawMinutes(*record.CheckOut, record.Date, record.OvertimeApproved, record.SundayWorkApproved)
	}

	now := a.now()
	record.ApprovalState = attendance.ApprovalApproved
	record.ApprovedBy = &adminID
	record.ApprovedAt = &now

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to approve attendance: %w", err)
	}

	return mapAttendanceToResponse(record), nil
}

// RejectOvertime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RejectOvertime(ctx context.Context, req attendance.RejectRequest, adminID string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	switch record.ApprovalState {
	case attendance.ApprovalPending:
	case attendance.ApprovalNone:
		return attendance.AttendanceResponse{}, attendance.ErrNothingToApprove
	default:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyProcessed
	}

	// Rejection re-opens the day: the check-out is cleared so the employee
	// can submit again, and nothing stays payable.
	record.OvertimeMinutes = 0
	record.CheckOut = nil
	record.OvertimeApproved = false
	record.SundayWorkApproved = false
	record.Status, record.LateMinutes = resolveStatus(a.rules, record.CheckIn, record.Date, false)
	record.Notes = &req.Reason

	now := a.now()
	record.ApprovalState = attendance.ApprovalRejected
	record.ApprovedBy = &adminID
	record.ApprovedAt = &now

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reject attendance: %w", err)
	}

	return mapAttendanceToResponse(record), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// clockOn combines a date with an HH:MM wall-clock string in the configured
// location. Callers validate the format beforehand.
func (a *AttendanceServiceImpl) clockOn(date time.Time, clock string) time.Time {
	t, _ := time.Parse("15:04", clock)
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, a.rules.Location)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	var approvedAt *string
	if att.ApprovedAt != nil {
		s := att.ApprovedAt.Format(time.RFC3339)
		approvedAt = &s
	}

	return attendance.AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeName:       employeeName,
		Date:               att.Date.Format("2006-01-02"),
		CheckInTime:        timePtrToString(att.CheckIn),
		CheckOutTime:       timePtrToString(att.CheckOut),
		Status:             string(att.Status),
		LateMinutes:        att.LateMinutes,
		OvertimeMinutes:    att.OvertimeMinutes,
		OvertimeApproved:   att.OvertimeApproved,
		SundayWorkApproved: att.SundayWorkApproved,
		ApprovalState:      string(att.ApprovalState),
		ApprovedBy:         att.ApprovedBy,
		ApprovedAt:         approvedAt,
		Notes:              att.Notes,
	}
}
