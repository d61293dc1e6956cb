package overtime

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== IN-MEMORY FAKES ==========

type fakeRequestRepo struct {
	requests map[string]overtime.Request
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]overtime.Request)}
}

func (f *fakeRequestRepo) Create(_ context.Context, req overtime.Request) (overtime.Request, error) {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (overtime.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return overtime.Request{}, overtime.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, req overtime.Request) error {
	if _, ok := f.requests[req.ID]; !ok {
		return overtime.ErrRequestNotFound
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestRepo) List(_ context.Context, filter overtime.RequestFilter) ([]overtime.Request, int64, error) {
	var out []overtime.Request
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) ListApprovedByEmployeeAndMonth(_ context.Context, employeeID string, month, year int) ([]overtime.Request, error) {
	var out []overtime.Request
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.Status == overtime.RequestStatusApproved &&
			int(req.Date.Month()) == month && req.Date.Year() == year {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

// ========== SETUP ==========

func newTestOvertimeService() (overtime.OvertimeService, *fakeRequestRepo) {
	rules := workcal.DefaultRules(time.UTC)
	calc := NewCalculator(rules)
	repo := newFakeRequestRepo()
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"shift-1": {
			ID:               "shift-1",
			WorkScheduleType: employee.ScheduleTypeShift,
			HourlyRate:       decimal.NewFromInt(20000),
			EmploymentStatus: employee.EmploymentStatusActive,
		},
		"nonshift-1": {
			ID:               "nonshift-1",
			WorkScheduleType: employee.ScheduleTypeNonShift,
			HourlyRate:       decimal.NewFromInt(20000),
			EmploymentStatus: employee.EmploymentStatusActive,
		},
	}}
	return NewOvertimeService(rules, calc, repo, empRepo), repo
}

// ========== TESTS ==========

func TestSubmit_ShiftEmployee(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	res, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "shift-1",
		Date:       "2025-06-02",
		Start:      "18:00",
		End:        "20:30",
	})

	require.NoError(t, err)
	assert.Equal(t, string(overtime.RequestStatusPending), res.Status)
	// Weekday interval: 1.5 for the first hour, 2.0x for the rest.
	assert.InDelta(t, 4.5, res.PayableHours, 1e-9)
}

func TestSubmit_NonShiftEmployeeRejected(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "nonshift-1",
		Date:       "2025-06-02",
		Start:      "18:00",
		End:        "20:00",
	})

	assert.ErrorIs(t, err, overtime.ErrNotShiftEmployee)
}

func TestSubmit_MidnightCrossingInterval(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	res, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "shift-1",
		Date:       "2025-06-02",
		Start:      "22:00",
		End:        "02:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "22:00", res.Start)
	assert.Equal(t, "02:00", res.End)
}

func TestSubmit_ZeroLengthInterval(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "shift-1",
		Date:       "2025-06-02",
		Start:      "18:00",
		End:        "18:00",
	})

	assert.ErrorIs(t, err, overtime.ErrEndBeforeStart)
}

func TestApprove_PendingRequest(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	created, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "shift-1",
		Date:       "2025-06-02",
		Start:      "18:00",
		End:        "20:00",
	})
	require.NoError(t, err)

	res, err := svc.Approve(ctx, created.ID, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, string(overtime.RequestStatusApproved), res.Status)
	require.NotNil(t, res.ReviewedBy)
	assert.Equal(t, "admin-1", *res.ReviewedBy)
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	created, err := svc.Submit(ctx, overtime.SubmitRequest{
		EmployeeID: "shift-1",
		Date:       "2025-06-02",
		Start:      "18:00",
		End:        "20:00",
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, created.ID, "admin-1", "duplicate")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "admin-1")
	assert.ErrorIs(t, err, overtime.ErrRequestAlreadyProcessed)
}

func TestEstimate_WeekdayAmount(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	res, err := svc.Estimate(ctx, "shift-1", overtime.EstimateRequest{
		Date:     "2025-06-02",
		CheckOut: "18:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "WEEKDAY", res.DayType)
	assert.InDelta(t, 3.5, res.PayableOvertime, 1e-9)
	// 3.5 payable hours x 20,000.
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(70000)), "amount = %s", res.Amount)
}

func TestEstimate_SundayAmount(t *testing.T) {
	svc, _ := newTestOvertimeService()
	ctx := context.Background()

	res, err := svc.Estimate(ctx, "shift-1", overtime.EstimateRequest{
		Date:     "2025-06-08",
		CheckOut: "16:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "SUNDAY", res.DayType)
	assert.InDelta(t, 15.0, res.TotalPayable, 1e-9)
}
