package attendance

import (
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
)

// resolveStatus classifies a check-in against the day's work window.
//
// A nil check-in is an absence. Sunday presence counts only when the
// Sunday-work approval is set; approved Sundays have no lateness concept.
// On other days the late-minute count is measured from the window start,
// while the status flips to LATE only strictly past the grace threshold.
func resolveStatus(rules workcal.Rules, checkIn *time.Time, date time.Time, sundayApproved bool) (attendance.Status, int) {
	if checkIn == nil {
		return attendance.StatusAbsent, 0
	}

	day := rules.Classify(date)

	if day.Type == workcal.DayTypeSunday {
		if !sundayApproved {
			return attendance.StatusAbsent, 0
		}
		return attendance.StatusOnTime, 0
	}

	lateMinutes := int(checkIn.Sub(day.WorkStart).Minutes())
	if lateMinutes < 0 {
		lateMinutes = 0
	}

	if checkIn.After(day.LateThreshold) {
		return attendance.StatusLate, lateMinutes
	}
	return attendance.StatusOnTime, lateMinutes
}

// needsApproval reports whether a day's presence requires an admin action
// before any overtime can be paid: any Sunday work, or a check-out past the
// work-window end.
func needsApproval(rules workcal.Rules, date time.Time, checkOut *time.Time) bool {
	day := rules.Classify(date)
	if day.Type == workcal.DayTypeSunday {
		return true
	}
	return checkOut != nil && checkOut.After(day.WorkEnd)
}
