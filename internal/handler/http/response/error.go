package response

import (
	"errors"
	"net/http"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in recorded for today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this date")
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, "Check-out cannot be before check-in", nil)
	case errors.Is(err, attendance.ErrNothingToApprove):
		BadRequest(w, "Attendance has no pending approval", nil)
	case errors.Is(err, attendance.ErrAlreadyProcessed):
		Conflict(w, "Approval already processed")

	// Overtime domain errors
	case errors.Is(err, overtime.ErrRequestNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrRequestAlreadyProcessed):
		Conflict(w, "Overtime request already processed")
	case errors.Is(err, overtime.ErrNotShiftEmployee):
		BadRequest(w, "Overtime requests are only for shift employees", nil)
	case errors.Is(err, overtime.ErrEndBeforeStart):
		BadRequest(w, "Overtime end cannot be before start", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll already generated for this period")
	case errors.Is(err, payroll.ErrPayrollAlreadyPaid):
		Conflict(w, "Payroll record already paid")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
