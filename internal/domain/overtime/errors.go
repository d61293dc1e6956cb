package overtime

import "errors"

var (
	ErrRequestNotFound         = errors.New("overtime request not found")
	ErrRequestAlreadyProcessed = errors.New("overtime request has already been approved or rejected")
	ErrNotShiftEmployee        = errors.New("overtime requests are only for shift-schedule employees")
	ErrEndBeforeStart          = errors.New("overtime end must be after start")
)
