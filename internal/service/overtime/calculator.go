package overtime

import (
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
)

// Calculator implements both payable-overtime computations: the
// approval-gated raw-minute capture used by the monthly aggregator for
// NON_SHIFT employees, and the tiered-multiplier estimator used for SHIFT
// employees' explicit requests and for what-if simulation. The two models
// diverge on purpose and are never merged.
type Calculator struct {
	rules workcal.Rules
}

func NewCalculator(rules workcal.Rules) *Calculator {
	return &Calculator{rules: rules}
}

// RawMinutes converts a check-out into raw (pre-multiplier) overtime
// minutes. Returns 0 unless the relevant approval flag is set. Weekdays and
// Saturdays count from the work-window end; an approved Sunday counts from
// the start of the day, since the whole presence is overtime. Accrual stops
// at 07:00 the next calendar day either way.
func (c *Calculator) RawMinutes(checkOut time.Time, date time.Time, overtimeApproved, sundayApproved bool) int {
	day := c.rules.Classify(date)

	end := checkOut
	if end.After(day.OvernightCap) {
		end = day.OvernightCap
	}

	var from time.Time
	switch day.Type {
	case workcal.DayTypeSunday:
		if !sundayApproved {
			return 0
		}
		from = day.WorkStart // midnight
	default:
		if !overtimeApproved {
			return 0
		}
		from = day.WorkEnd
	}

	mins := int(end.Sub(from).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}

// TieredResult expresses an interval's worth in payable hour-equivalents:
// a multiplier-weighted hour count to be priced with the hourly rate.
type TieredResult struct {
	DayType              workcal.DayType
	NormalHours          float64
	RawOvertimeHours     float64
	PayableOvertimeHours float64
	TotalPayableHours    float64
}

// Tiered values a working day ending at checkOut under the day-type tier
// table. It ignores approval flags entirely: it answers "what would this
// be worth", which is why it also backs the simulation endpoint.
//
// Weekday: 7.5 normal hours always credited at 1.0x; the first excess hour
// past the window end pays 1.5x, every hour beyond pays 2.0x, fractions
// prorated. Saturday: up to 4 worked hours the whole duration pays 2.0x;
// beyond that, 5 normal-equivalent hours pay 2.0x and the remainder (after
// the 1-hour unpaid break) pays 1.0x. Sunday: the whole duration (minus
// the break when over the threshold) pays 2.0x.
func (c *Calculator) Tiered(checkOut time.Time, date time.Time) TieredResult {
	day := c.rules.Classify(date)

	end := checkOut
	if end.After(day.OvernightCap) {
		end = day.OvernightCap
	}

	switch day.Type {
	case workcal.DayTypeWeekday:
		excess := end.Sub(day.WorkEnd).Hours()
		if excess < 0 {
			excess = 0
		}
		payable := tierHours(excess, c.rules.FirstOvertimeHourRate, c.rules.ExtraOvertimeHourRate)
		return TieredResult{
			DayType:              day.Type,
			NormalHours:          c.rules.WeekdayNormalHours,
			RawOvertimeHours:     excess,
			PayableOvertimeHours: payable,
			TotalPayableHours:    c.rules.WeekdayNormalHours + payable,
		}

	case workcal.DayTypeSaturday:
		worked := end.Sub(day.WorkStart).Hours()
		if worked < 0 {
			worked = 0
		}
		if worked <= c.rules.UnpaidBreakThresholdHours {
			// Short Saturday: the entire duration is weekend-rate work,
			// with no separate normal component.
			payable := worked * c.rules.WeekendRate
			return TieredResult{
				DayType:              day.Type,
				RawOvertimeHours:     worked,
				PayableOvertimeHours: payable,
				TotalPayableHours:    payable,
			}
		}
		net := worked - c.rules.UnpaidBreakHours
		raw := net - c.rules.SaturdayNormalHours
		if raw < 0 {
			raw = 0
		}
		return TieredResult{
			DayType:              day.Type,
			NormalHours:          c.rules.SaturdayNormalHours,
			RawOvertimeHours:     raw,
			PayableOvertimeHours: raw, // 1.0x beyond the weekend-rate baseline
			TotalPayableHours:    c.rules.SaturdayNormalHours*c.rules.WeekendRate + raw,
		}

	default: // Sunday
		start := day.WorkStart.Add(time.Duration(c.rules.WeekdayStartMinute) * time.Minute)
		worked := end.Sub(start).Hours()
		if worked < 0 {
			worked = 0
		}
		if worked > c.rules.UnpaidBreakThresholdHours {
			worked -= c.rules.UnpaidBreakHours
		}
		payable := worked * c.rules.WeekendRate
		return TieredResult{
			DayType:              day.Type,
			RawOvertimeHours:     worked,
			PayableOvertimeHours: payable,
			TotalPayableHours:    payable,
		}
	}
}

// IntervalPayableHours values an explicit overtime interval, the input of a
// SHIFT employee's request. Weekday intervals tier at 1.5x/2.0x; weekend
// intervals pay the weekend rate, minus the unpaid break past the
// threshold.
func (c *Calculator) IntervalPayableHours(start, end time.Time, date time.Time) float64 {
	day := c.rules.Classify(date)

	if end.After(day.OvernightCap) {
		end = day.OvernightCap
	}
	dur := end.Sub(start).Hours()
	if dur <= 0 {
		return 0
	}

	if day.Type == workcal.DayTypeWeekday {
		return tierHours(dur, c.rules.FirstOvertimeHourRate, c.rules.ExtraOvertimeHourRate)
	}

	if dur > c.rules.UnpaidBreakThresholdHours {
		dur -= c.rules.UnpaidBreakHours
	}
	return dur * c.rules.WeekendRate
}

// tierHours prorates the first excess hour at firstRate and the remainder
// at extraRate.
func tierHours(excess, firstRate, extraRate float64) float64 {
	if excess <= 0 {
		return 0
	}
	if excess <= 1 {
		return excess * firstRate
	}
	return firstRate + (excess-1)*extraRate
}
