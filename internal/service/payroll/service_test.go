package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/arka-hr/payroll-backend-go/internal/domain/employee"
	"github.com/arka-hr/payroll-backend-go/internal/domain/notification"
	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	overtimeCalc "github.com/arka-hr/payroll-backend-go/internal/service/overtime"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payrollTestEmployee(schedule employee.ScheduleType) employee.Employee {
	return employee.Employee{
		ID:               "e1",
		WorkScheduleType: schedule,
		BaseSalary:       decimal.NewFromInt(3500000),
		HourlyRate:       decimal.NewFromInt(20000),
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func attDay(d int, status attendance.Status, lateMinutes, overtimeMinutes int) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:      "e1",
		Date:            day(d),
		Status:          status,
		LateMinutes:     lateMinutes,
		OvertimeMinutes: overtimeMinutes,
	}
}

func TestBuildPayroll_BaseOnly(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	records := []attendance.Attendance{
		attDay(2, attendance.StatusOnTime, 0, 0),
		attDay(3, attendance.StatusOnTime, 0, 0),
	}

	record, deductions := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	assert.Equal(t, 2, record.DaysPresent)
	assert.Equal(t, 0, record.DaysLate)
	assert.Empty(t, deductions)
	assert.True(t, record.NetSalary.Equal(decimal.NewFromInt(3500000)), "net = %s", record.NetSalary)
	assert.Equal(t, payroll.PayrollStatusPending, record.Status)
}

func TestBuildPayroll_LateDeductionProportional(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	// 3,500,000 / 22 = 159,090.909...; 15 late minutes deduct
	// dailyRate x 1% x 15 = 23,863.64.
	records := []attendance.Attendance{
		attDay(2, attendance.StatusLate, 15, 0),
	}

	record, deductions := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	require.Len(t, deductions, 1)
	assert.Equal(t, payroll.DeductionTypeLate, deductions[0].Type)
	assert.True(t, deductions[0].Amount.Equal(decimal.RequireFromString("23863.64")),
		"deduction = %s", deductions[0].Amount)
	assert.Equal(t, 1, record.DaysLate)
	assert.True(t, record.LateDeduction.Equal(decimal.RequireFromString("23863.64")))
}

func TestBuildPayroll_LateDeductionCappedAtDailyRate(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	// 200 late minutes would exceed one daily rate; the cap holds it there.
	records := []attendance.Attendance{
		attDay(2, attendance.StatusLate, 200, 0),
	}

	_, deductions := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	require.Len(t, deductions, 1)
	assert.True(t, deductions[0].Amount.Equal(decimal.RequireFromString("159090.91")),
		"deduction = %s", deductions[0].Amount)
}

func TestBuildPayroll_AbsenceAggregateRow(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	records := []attendance.Attendance{
		attDay(2, attendance.StatusAbsent, 0, 0),
		attDay(3, attendance.StatusAbsent, 0, 0),
	}

	record, deductions := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	require.Len(t, deductions, 1)
	assert.Equal(t, payroll.DeductionTypeAbsence, deductions[0].Type)
	// Two daily rates: 2 x 159,090.909... = 318,181.82.
	assert.True(t, deductions[0].Amount.Equal(decimal.RequireFromString("318181.82")),
		"deduction = %s", deductions[0].Amount)
	assert.Equal(t, 2, record.DaysAbsent)
}

func TestBuildPayroll_OnLeaveCountsAsPresent(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	records := []attendance.Attendance{
		attDay(2, attendance.StatusOnLeave, 0, 0),
	}

	record, deductions := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	assert.Equal(t, 1, record.DaysPresent)
	assert.Empty(t, deductions)
	assert.True(t, record.NetSalary.Equal(decimal.NewFromInt(3500000)))
}

func TestBuildPayroll_NonShiftFlatOvertime(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	// 120 approved raw minutes: 2h x 20,000 x 1.5 = 60,000.
	records := []attendance.Attendance{
		attDay(2, attendance.StatusOnTime, 0, 120),
	}

	record, _ := buildPayroll(rules, calc, emp, records, nil, nil, 6, 2025)

	assert.True(t, record.OvertimeHours.Equal(decimal.NewFromInt(2)), "hours = %s", record.OvertimeHours)
	assert.True(t, record.OvertimeAmount.Equal(decimal.NewFromInt(60000)), "amount = %s", record.OvertimeAmount)
	assert.True(t, record.NetSalary.Equal(decimal.NewFromInt(3560000)))
}

func TestBuildPayroll_ShiftUsesApprovedRequests(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeShift)

	// Raw attendance minutes are ignored for shift employees; the tiered
	// valuation of the approved request is what pays.
	records := []attendance.Attendance{
		attDay(2, attendance.StatusOnTime, 0, 120),
	}
	requests := []overtime.Request{
		{
			EmployeeID: "e1",
			Date:       day(2), // Monday
			Start:      time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
			Status:     overtime.RequestStatusApproved,
		},
	}

	record, _ := buildPayroll(rules, calc, emp, records, requests, nil, 6, 2025)

	// 2h weekday interval tiers to 3.5 payable hours x 20,000.
	assert.True(t, record.OvertimeHours.Equal(decimal.RequireFromString("3.5")), "hours = %s", record.OvertimeHours)
	assert.True(t, record.OvertimeAmount.Equal(decimal.NewFromInt(70000)), "amount = %s", record.OvertimeAmount)
}

func TestBuildPayroll_AllowancesAdded(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	allowances := []payroll.Allowance{
		{Name: "transport", Amount: decimal.NewFromInt(100000)},
		{Name: "meal", Amount: decimal.NewFromInt(50000)},
	}

	record, _ := buildPayroll(rules, calc, emp, nil, nil, allowances, 6, 2025)

	assert.True(t, record.TotalAllowances.Equal(decimal.NewFromInt(150000)))
	assert.True(t, record.NetSalary.Equal(decimal.NewFromInt(3650000)))
}

func TestBuildPayroll_FullMonth(t *testing.T) {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	emp := payrollTestEmployee(employee.ScheduleTypeNonShift)

	records := []attendance.Attendance{
		attDay(2, attendance.StatusLate, 15, 0),
		attDay(3, attendance.StatusAbsent, 0, 0),
		attDay(4, attendance.StatusOnTime, 0, 120),
	}
	allowances := []payroll.Allowance{
		{Name: "transport", Amount: decimal.NewFromInt(100000)},
	}

	record, deductions := buildPayroll(rules, calc, emp, records, nil, allowances, 6, 2025)

	require.Len(t, deductions, 2)
	assert.Equal(t, 1, record.DaysPresent)
	assert.Equal(t, 1, record.DaysLate)
	assert.Equal(t, 1, record.DaysAbsent)

	// 3,500,000 - 23,863.64 - 159,090.91 + 60,000 + 100,000
	assert.True(t, record.TotalDeductions.Equal(decimal.RequireFromString("182954.55")),
		"deductions = %s", record.TotalDeductions)
	assert.True(t, record.NetSalary.Equal(decimal.RequireFromString("3477045.45")),
		"net = %s", record.NetSalary)
}

type fakePayrollStore struct {
	records    map[string]payroll.PayrollRecord
	deductions []payroll.DeductionEntry
	allowances []payroll.Allowance

	// missPeriodCheck makes the period lookup report nothing even when a
	// record exists, the way a concurrent generation slips past the early
	// duplicate check before the unique constraint catches it.
	missPeriodCheck bool
}

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{records: make(map[string]payroll.PayrollRecord)}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, month, year)
}

func (f *fakePayrollStore) GetRecordByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	if f.missPeriodCheck {
		return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
	}
	record, ok := f.records[periodKey(employeeID, month, year)]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
	}
	return record, nil
}

func (f *fakePayrollStore) CreateRecordTx(_ context.Context, _ pgx.Tx, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	key := periodKey(record.EmployeeID, record.PeriodMonth, record.PeriodYear)
	if _, ok := f.records[key]; ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollAlreadyExists
	}
	record.ID = uuid.NewString()
	f.records[key] = record
	return record, nil
}

func (f *fakePayrollStore) CreateDeductionsTx(_ context.Context, _ pgx.Tx, entries []payroll.DeductionEntry) error {
	f.deductions = append(f.deductions, entries...)
	return nil
}

func (f *fakePayrollStore) GetRecordByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollStore) ListRecords(_ context.Context, _ payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	return nil, 0, nil
}

func (f *fakePayrollStore) MarkPaid(_ context.Context, _ string, _ string) (payroll.PayrollRecord, error) {
	return payroll.PayrollRecord{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollStore) ListDeductions(_ context.Context, employeeID string, month, year int) ([]payroll.DeductionEntry, error) {
	var out []payroll.DeductionEntry
	for _, d := range f.deductions {
		if d.EmployeeID == employeeID && d.PeriodMonth == month && d.PeriodYear == year {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakePayrollStore) ListAllowances(_ context.Context, _ string, _, _ int) ([]payroll.Allowance, error) {
	return f.allowances, nil
}

type fakeEmployeeDirectory struct {
	employees []employee.Employee
}

func (f *fakeEmployeeDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeDirectory) GetActive(_ context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeMonthLister struct {
	records []attendance.Attendance
}

func (f *fakeMonthLister) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeMonthLister) GetByID(_ context.Context, _ string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeMonthLister) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeMonthLister) Update(_ context.Context, _ attendance.Attendance) error {
	return nil
}

func (f *fakeMonthLister) ListByEmployeeAndMonth(_ context.Context, employeeID string, _, _ int) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMonthLister) List(_ context.Context, _ attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

type fakeApprovedRequests struct {
	approved []overtime.Request
}

func (f *fakeApprovedRequests) Create(_ context.Context, request overtime.Request) (overtime.Request, error) {
	return request, nil
}

func (f *fakeApprovedRequests) GetByID(_ context.Context, _ string) (overtime.Request, error) {
	return overtime.Request{}, overtime.ErrRequestNotFound
}

func (f *fakeApprovedRequests) Update(_ context.Context, _ overtime.Request) error {
	return nil
}

func (f *fakeApprovedRequests) List(_ context.Context, _ overtime.RequestFilter) ([]overtime.Request, int64, error) {
	return nil, 0, nil
}

func (f *fakeApprovedRequests) ListApprovedByEmployeeAndMonth(_ context.Context, employeeID string, _, _ int) ([]overtime.Request, error) {
	var out []overtime.Request
	for _, r := range f.approved {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeNotificationLog struct {
	created []notification.Notification
}

func (f *fakeNotificationLog) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	n.ID = uuid.NewString()
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationLog) ListByEmployee(_ context.Context, _ string, _ int) ([]notification.Notification, error) {
	return nil, nil
}

func newGenerateService(store *fakePayrollStore, directory *fakeEmployeeDirectory, months *fakeMonthLister) payroll.PayrollService {
	rules := workcal.DefaultRules(time.UTC)
	calc := overtimeCalc.NewCalculator(rules)
	svc := NewPayrollService(nil, rules, calc, store, directory, months, &fakeApprovedRequests{}, &fakeNotificationLog{})

	impl := svc.(*PayrollServiceImpl)
	impl.withTx = func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}
	return svc
}

func TestGenerate_SecondRunForSamePeriodRejected(t *testing.T) {
	// Arrange: one late day so the first run writes a deduction entry.
	store := newFakePayrollStore()
	directory := &fakeEmployeeDirectory{employees: []employee.Employee{payrollTestEmployee(employee.ScheduleTypeNonShift)}}
	months := &fakeMonthLister{records: []attendance.Attendance{
		attDay(2, attendance.StatusLate, 15, 0),
	}}
	svc := newGenerateService(store, directory, months)

	req := payroll.GenerateRequest{EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2025}

	// Act
	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, store.deductions, 1)

	_, err = svc.Generate(context.Background(), req)

	// Assert: the second run fails cleanly and writes nothing.
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
	assert.Len(t, store.records, 1)
	assert.Len(t, store.deductions, 1)
	assert.NotEmpty(t, first.ID)
}

func TestGenerate_ConstraintViolationMapsToAlreadyExists(t *testing.T) {
	// Arrange: the record exists but the period lookup misses it, as when
	// two generations race. The insert-level guard must still hold, with
	// no deduction rows written.
	store := newFakePayrollStore()
	store.records[periodKey("e1", 6, 2025)] = payroll.PayrollRecord{ID: "existing"}
	store.missPeriodCheck = true
	directory := &fakeEmployeeDirectory{employees: []employee.Employee{payrollTestEmployee(employee.ScheduleTypeNonShift)}}
	months := &fakeMonthLister{records: []attendance.Attendance{
		attDay(2, attendance.StatusLate, 15, 0),
	}}
	svc := newGenerateService(store, directory, months)

	// Act
	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{
		EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2025,
	})

	// Assert
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
	assert.Empty(t, store.deductions)
}

func TestGenerateAll_SkipsAlreadyGeneratedEmployees(t *testing.T) {
	// Arrange: e1 already has a payslip for the period.
	second := payrollTestEmployee(employee.ScheduleTypeNonShift)
	second.ID = "e2"
	store := newFakePayrollStore()
	directory := &fakeEmployeeDirectory{employees: []employee.Employee{
		payrollTestEmployee(employee.ScheduleTypeNonShift),
		second,
	}}
	months := &fakeMonthLister{}
	svc := newGenerateService(store, directory, months)

	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{
		EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2025,
	})
	require.NoError(t, err)

	// Act
	responses, err := svc.GenerateAll(context.Background(), 6, 2025)

	// Assert: only e2 is generated; e1 is skipped, not an error.
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "e2", responses[0].EmployeeID)
	assert.Len(t, store.records, 2)
}
