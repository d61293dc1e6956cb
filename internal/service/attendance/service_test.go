package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	overtimeService "github.com/arka-hr/payroll-backend-go/internal/service/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== IN-MEMORY FAKES ==========

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == att.EmployeeID && existing.Date.Equal(att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	att.ID = string(rune('a' + f.nextID))
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	for _, att := range f.records {
		if att.EmployeeID == employeeID && att.Date.Equal(date) {
			copied := att
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, att attendance.Attendance) error {
	if _, ok := f.records[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndMonth(_ context.Context, employeeID string, month, year int) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.EmployeeID == employeeID && int(att.Date.Month()) == month && att.Date.Year() == year {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, att)
	}
	return out, int64(len(out)), nil
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
		if emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	onLeave map[string]bool // employeeID|date
}

func (f *fakeLeaveRepo) HasApprovedLeave(_ context.Context, employeeID string, date time.Time) (bool, error) {
	return f.onLeave[employeeID+"|"+date.Format("2006-01-02")], nil
}

// ========== SETUP ==========

func testEmployee(id string, schedule employee.ScheduleType) employee.Employee {
	return employee.Employee{
		ID:               id,
		EmployeeCode:     "EMP-" + id,
		FullName:         "Test Employee",
		WorkScheduleType: schedule,
		BaseSalary:       decimal.NewFromInt(3500000),
		HourlyRate:       decimal.NewFromInt(20000),
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func newTestService(now time.Time) (attendance.AttendanceService, *fakeAttendanceRepo, *fakeEmployeeRepo, *fakeLeaveRepo) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeService.NewCalculator(rules)
	attRepo := newFakeAttendanceRepo()
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"e1": testEmployee("e1", employee.ScheduleTypeNonShift),
	}}
	leaveRepo := &fakeLeaveRepo{onLeave: make(map[string]bool)}

	svc := NewAttendanceService(rules, calc, attRepo, empRepo, leaveRepo)
	svc.(*AttendanceServiceImpl).now = func() time.Time { return now }
	return svc, attRepo, empRepo, leaveRepo
}

// 2025-06-02 is a Monday, 2025-06-08 a Sunday.
func mondayAt(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func sundayAt(hour, min int) time.Time {
	return time.Date(2025, 6, 8, hour, min, 0, 0, time.UTC)
}

// ========== TESTS ==========

func TestCheckIn_OnTimeWithinGrace(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 20))
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnTime), res.Status)
	assert.Equal(t, 20, res.LateMinutes)
}

func TestCheckIn_Late(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(9, 0))
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), res.Status)
	assert.Equal(t, 60, res.LateMinutes)
}

func TestCheckIn_DuplicateSameDay(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_InactiveEmployee(t *testing.T) {
	svc, _, empRepo, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	resigned := testEmployee("e2", employee.ScheduleTypeNonShift)
	resigned.EmploymentStatus = employee.EmploymentStatusResigned
	empRepo.employees["e2"] = resigned

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e2"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCheckIn_ApprovedLeaveWins(t *testing.T) {
	svc, _, _, leaveRepo := newTestService(mondayAt(10, 0))
	leaveRepo.onLeave["e1|2025-06-02"] = true
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnLeave), res.Status)
	assert.Equal(t, 0, res.LateMinutes)
}

func TestCheckIn_SundayGoesPending(t *testing.T) {
	svc, attRepo, _, _ := newTestService(sundayAt(9, 0))
	ctx := context.Background()

	res, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	// Unapproved Sunday presence does not count as a work day.
	assert.Equal(t, string(attendance.StatusAbsent), res.Status)

	stored, err := attRepo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.ApprovalPending, stored.ApprovalState)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(17, 0))
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_OvertimeStaysZeroUntilApproved(t *testing.T) {
	svc, attRepo, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(18, 30) }
	res, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	// 2h past the window end, but nothing is payable before approval.
	assert.Equal(t, 0, res.OvertimeMinutes)

	stored, err := attRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.ApprovalPending, stored.ApprovalState)
}

func TestCheckOut_Twice(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(16, 30) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestApproveOvertime_RecomputesMinutes(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(18, 30) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	res, err := svc.ApproveOvertime(ctx, attendance.ApproveRequest{ID: created.ID}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 120, res.OvertimeMinutes)
	assert.Equal(t, string(attendance.ApprovalApproved), res.ApprovalState)
}

func TestApproveOvertime_NothingPending(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = svc.ApproveOvertime(ctx, attendance.ApproveRequest{ID: created.ID}, "admin-1")
	assert.ErrorIs(t, err, attendance.ErrNothingToApprove)
}

func TestApproveOvertime_Twice(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(18, 0) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = svc.ApproveOvertime(ctx, attendance.ApproveRequest{ID: created.ID}, "admin-1")
	require.NoError(t, err)

	_, err = svc.ApproveOvertime(ctx, attendance.ApproveRequest{ID: created.ID}, "admin-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyProcessed)
}

func TestApproveSunday_MakesDayCount(t *testing.T) {
	svc, _, _, _ := newTestService(sundayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return sundayAt(16, 30) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	res, err := svc.ApproveOvertime(ctx, attendance.ApproveRequest{ID: created.ID}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusOnTime), res.Status)
	// Approved Sunday overtime counts from midnight.
	assert.Equal(t, 990, res.OvertimeMinutes)
}

func TestRejectOvertime_ReopensDay(t *testing.T) {
	svc, attRepo, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(18, 30) }
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	res, err := svc.RejectOvertime(ctx, attendance.RejectRequest{ID: created.ID, Reason: "not requested"}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 0, res.OvertimeMinutes)
	assert.Nil(t, res.CheckOutTime)

	// A fresh check-in on the same day overwrites the rejected record.
	svc.(*AttendanceServiceImpl).now = func() time.Time { return mondayAt(19, 0) }
	again, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	stored, err := attRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.ApprovalNone, stored.ApprovalState)
	assert.False(t, stored.OvertimeApproved)
}

func TestBackfill_CreatesLateRecord(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0).AddDate(0, 0, 7))
	ctx := context.Background()

	checkOut := "17:30"
	res, err := svc.Backfill(ctx, attendance.BackfillRequest{
		EmployeeID: "e1",
		Date:       "2025-06-02",
		CheckIn:    "09:00",
		CheckOut:   &checkOut,
	})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), res.Status)
	assert.Equal(t, 60, res.LateMinutes)
	assert.Equal(t, "2025-06-02", res.Date)
}

func TestBackfill_DuplicateDate(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = svc.Backfill(ctx, attendance.BackfillRequest{
		EmployeeID: "e1",
		Date:       "2025-06-02",
		CheckIn:    "08:00",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestBackfill_OvernightCheckOutWrapsToNextDay(t *testing.T) {
	svc, attRepo, _, _ := newTestService(mondayAt(8, 0).AddDate(0, 0, 7))
	ctx := context.Background()

	checkOut := "02:00"
	_, err := svc.Backfill(ctx, attendance.BackfillRequest{
		EmployeeID: "e1",
		Date:       "2025-06-02",
		CheckIn:    "08:00",
		CheckOut:   &checkOut,
	})

	require.NoError(t, err)
	stored, err := attRepo.GetByEmployeeAndDate(ctx, "e1", mondayAt(0, 0))
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.CheckOut)
	assert.Equal(t, 3, stored.CheckOut.Day())
}

func TestBackfill_CheckOutBeforeCheckInRejected(t *testing.T) {
	svc, _, _, _ := newTestService(mondayAt(8, 0).AddDate(0, 0, 7))
	ctx := context.Background()

	// 07:30 precedes the 08:00 check-in and sits past the overnight cap,
	// so it cannot be read as next-day work.
	checkOut := "07:30"
	_, err := svc.Backfill(ctx, attendance.BackfillRequest{
		EmployeeID: "e1",
		Date:       "2025-06-02",
		CheckIn:    "08:00",
		CheckOut:   &checkOut,
	})

	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestCheckOut_AfterMidnightClosesPreviousDay(t *testing.T) {
	// 02:00 Tuesday; Monday's record is still open.
	svc, attRepo, _, _ := newTestService(time.Date(2025, 6, 3, 2, 0, 0, 0, time.UTC))
	ctx := context.Background()

	checkIn := mondayAt(8, 0)
	_, err := attRepo.Create(ctx, attendance.Attendance{
		EmployeeID: "e1",
		Date:       mondayAt(0, 0),
		CheckIn:    &checkIn,
		Status:     attendance.StatusOnTime,
	})
	require.NoError(t, err)

	res, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", res.Date)

	stored, err := attRepo.GetByEmployeeAndDate(ctx, "e1", mondayAt(0, 0))
	require.NoError(t, err)
	require.NotNil(t, stored.CheckOut)
	// Raw minutes stay 0 until the overtime is approved.
	assert.Equal(t, 0, stored.OvertimeMinutes)
}

func TestCheckOut_PastOvernightCapFailsNotCheckedIn(t *testing.T) {
	// 08:00 Tuesday is past the cap; Monday's open record is settled
	// history and Tuesday has no check-in.
	svc, attRepo, _, _ := newTestService(time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	checkIn := mondayAt(8, 0)
	_, err := attRepo.Create(ctx, attendance.Attendance{
		EmployeeID: "e1",
		Date:       mondayAt(0, 0),
		CheckIn:    &checkIn,
		Status:     attendance.StatusOnTime,
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}
