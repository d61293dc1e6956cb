package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	location       *time.Location
	interval       time.Duration
}

func NewPayrollJobs(payrollService payroll.PayrollService, location *time.Location, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		location:       location,
		interval:       interval,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_generate_monthly_payroll", j.interval, j.AutoGenerateMonthlyPayroll)
}

// AutoGenerateMonthlyPayroll generates payroll for the month that just
// closed. Generation is idempotent per (employee, period), so re-running
// on later ticks of day one only fills in employees that were skipped.
func (j *PayrollJobs) AutoGenerateMonthlyPayroll(ctx context.Context) error {
	now := time.Now().In(j.location)

	// Only run on the first day of the month
	if now.Day() != 1 {
		return nil
	}

	prev := now.AddDate(0, -1, 0)
	month := int(prev.Month())
	year := prev.Year()

	slog.Info("Cron: Starting monthly payroll generation", "month", month, "year", year)

	records, err := j.payrollService.GenerateAll(ctx, month, year)
	if err != nil {
		return err
	}

	slog.Info("Cron: Monthly payroll generation finished", "month", month, "year", year, "generated", len(records))
	return nil
}
