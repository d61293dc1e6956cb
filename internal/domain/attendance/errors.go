package attendance

import "errors"

var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Approval errors
	ErrNothingToApprove      = errors.New("attendance has no pending overtime or sunday work")
	ErrAlreadyProcessed      = errors.New("attendance has already been approved or rejected")
	ErrAttendanceNotFound    = errors.New("attendance record not found")
	ErrCheckOutBeforeCheckIn = errors.New("check-out cannot be before check-in")
)
