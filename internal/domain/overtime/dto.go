package overtime

import (
	"github.com/arka-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SubmitRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`  // 2006-01-02
	Start      string  `json:"start"` // 15:04
	End        string  `json:"end"`   // 15:04
	Reason     *string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidClockTime(r.Start) {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start must be in HH:MM format",
		})
	}

	if !validator.IsValidClockTime(r.End) {
		errs = append(errs, validator.ValidationError{
			Field:   "end",
			Message: "end must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EstimateRequest asks "what would this interval be worth" without touching
// any stored state. Used for the simulation endpoint and request previews.
type EstimateRequest struct {
	Date     string `json:"date"`     // 2006-01-02
	CheckOut string `json:"check_out"` // 15:04
}

func (r *EstimateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidClockTime(r.CheckOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: "check_out must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Status       string  `json:"status"`
	Reason       *string `json:"reason,omitempty"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`

	// Tiered valuation of the interval, attached for previews.
	PayableHours float64 `json:"payable_hours"`
}

// EstimateResponse is the tiered valuation of a hypothetical check-out.
type EstimateResponse struct {
	DayType          string          `json:"day_type"`
	NormalHours      float64         `json:"normal_hours"`
	RawOvertimeHours float64         `json:"raw_overtime_hours"`
	PayableOvertime  float64         `json:"payable_overtime_hours"`
	TotalPayable     float64         `json:"total_payable_hours"`
	Amount           decimal.Decimal `json:"amount"`
}

type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
	Month      int
	Year       int
	Page       int
	Limit      int
}

type ListRequestResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Requests   []RequestResponse `json:"requests"`
}
