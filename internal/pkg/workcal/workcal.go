package workcal

import (
	"time"
)

// DayType partitions every calendar date into exactly one bucket.
type DayType string

const (
	DayTypeWeekday  DayType = "WEEKDAY"
	DayTypeSaturday DayType = "SATURDAY"
	DayTypeSunday   DayType = "SUNDAY"
)

// Rules holds the company work-calendar constants. A Rules value is built
// once at startup and passed around; nothing mutates it afterwards.
type Rules struct {
	// Location anchors every day boundary and the overnight cap.
	Location *time.Location

	// Weekday window. LateThresholdMinute is deliberately decoupled from
	// WeekdayStartMinute: check-ins inside the grace period are on time.
	WeekdayStartMinute  int
	WeekdayEndMinute    int
	LateThresholdMinute int

	// Saturday has two distinct end times: the administrative attendance
	// window ends at SaturdayEndMinute, while the overtime tier table
	// treats the economically normal day as ending at
	// SaturdayBaselineEndMinute with SaturdayNormalHours credited.
	SaturdayStartMinute       int
	SaturdayEndMinute         int
	SaturdayBaselineEndMinute int
	SaturdayNormalHours       float64

	WeekdayNormalHours float64

	// Overtime spanning midnight stops accruing at this minute of the
	// next calendar day.
	OvernightCapMinute int

	// Tiered estimator multipliers.
	FirstOvertimeHourRate float64
	ExtraOvertimeHourRate float64
	WeekendRate           float64

	// Unpaid break subtracted on Saturday/Sunday when total worked hours
	// exceed the threshold.
	UnpaidBreakThresholdHours float64
	UnpaidBreakHours          float64

	// Flat multiplier applied by the payroll aggregator to approved raw
	// overtime minutes.
	FlatOvertimeRate float64

	// Payroll constants.
	StandardWorkDays     int
	LateDeductionPerMin  float64 // share of daily rate charged per late minute
}

// DefaultRules returns the standard rule set: weekdays 08:00-16:30 with a
// 08:30 grace threshold, Saturdays 08:00-12:00 (baseline 14:00 / 5 normal
// hours), overnight overtime capped at 07:00 the next day.
func DefaultRules(loc *time.Location) Rules {
	if loc == nil {
		loc = time.Local
	}
	return Rules{
		Location:                  loc,
		WeekdayStartMinute:        8 * 60,
		WeekdayEndMinute:          16*60 + 30,
		LateThresholdMinute:       8*60 + 30,
		SaturdayStartMinute:       8 * 60,
		SaturdayEndMinute:         12 * 60,
		SaturdayBaselineEndMinute: 14 * 60,
		SaturdayNormalHours:       5,
		WeekdayNormalHours:        7.5,
		OvernightCapMinute:        7 * 60,
		FirstOvertimeHourRate:     1.5,
		ExtraOvertimeHourRate:     2.0,
		WeekendRate:               2.0,
		UnpaidBreakThresholdHours: 4,
		UnpaidBreakHours:          1,
		FlatOvertimeRate:          1.5,
		StandardWorkDays:          22,
		LateDeductionPerMin:       0.01,
	}
}

// Day is the classification of one calendar date.
type Day struct {
	Type DayType

	// WorkStart/WorkEnd bound the normal attendance window. Sunday has no
	// window; both are set to midnight and all presence requires approval.
	WorkStart time.Time
	WorkEnd   time.Time

	// LateThreshold is the last on-time check-in moment (weekdays and
	// Saturdays). Check-ins strictly after it are late.
	LateThreshold time.Time

	// BaselineEnd is the end of the economically normal day used by the
	// overtime tier table. It differs from WorkEnd on Saturday.
	BaselineEnd time.Time

	// OvernightCap is 07:00 on the next calendar day.
	OvernightCap time.Time
}

// Classify maps a date to its day type and work-window constants. Pure and
// total: any valid date lands in exactly one DayType.
func (r Rules) Classify(date time.Time) Day {
	local := date.In(r.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.Location)
	at := func(minute int) time.Time {
		return midnight.Add(time.Duration(minute) * time.Minute)
	}
	capAt := midnight.AddDate(0, 0, 1).Add(time.Duration(r.OvernightCapMinute) * time.Minute)

	switch local.Weekday() {
	case time.Sunday:
		return Day{
			Type:          DayTypeSunday,
			WorkStart:     midnight,
			WorkEnd:       midnight,
			LateThreshold: midnight,
			BaselineEnd:   midnight,
			OvernightCap:  capAt,
		}
	case time.Saturday:
		return Day{
			Type:          DayTypeSaturday,
			WorkStart:     at(r.SaturdayStartMinute),
			WorkEnd:       at(r.SaturdayEndMinute),
			LateThreshold: at(r.LateThresholdMinute),
			BaselineEnd:   at(r.SaturdayBaselineEndMinute),
			OvernightCap:  capAt,
		}
	default:
		return Day{
			Type:          DayTypeWeekday,
			WorkStart:     at(r.WeekdayStartMinute),
			WorkEnd:       at(r.WeekdayEndMinute),
			LateThreshold: at(r.LateThresholdMinute),
			BaselineEnd:   at(r.WeekdayEndMinute),
			OvernightCap:  capAt,
		}
	}
}
