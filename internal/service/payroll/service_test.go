package payroll

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/alimalikali/payrollx-server/internal/pkg/metrics"
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/alimalikali/payrollx-server/internal/repository/memory"
	attendancesvc "github.com/alimalikali/payrollx-server/internal/service/attendance"
	"github.com/alimalikali/payrollx-server/internal/service/calendar"
	taxsvc "github.com/alimalikali/payrollx-server/internal/service/tax"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store    *memory.Store
	svc      *PayrollServiceImpl
	payslips payroll.PayslipRepository
	ctx      context.Context
}

type fixtureOption func(*Dependencies)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	store := memory.NewStore()
	calc, err := taxsvc.NewCalculator(tax.DefaultConfig())
	require.NoError(t, err)

	rules := payroll.DefaultRules()
	deps := Dependencies{
		Transactor:   store,
		RunRepo:      memory.NewRunRepository(store),
		PayslipRepo:  memory.NewPayslipRepository(store),
		EmployeeRepo: memory.NewEmployeeRepository(store),
		Calendar:     calendar.NewResolver(memory.NewHolidayRepository(store), rules),
		Aggregator:   attendancesvc.NewAggregator(memory.NewAttendanceRepository(store)),
		Calculator:   calc,
		Rules:        rules,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:      metrics.New(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	svc := NewPayrollService(deps)
	svc.WithNow(func() time.Time { return fixedNow })

	return &fixture{
		store:    store,
		svc:      svc,
		payslips: memory.NewPayslipRepository(store),
		ctx:      actorContext(t, "admin-1"),
	}
}

func actorContext(t *testing.T, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"user_id": userID, "is_admin": true})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func april(day int) time.Time {
	return time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC)
}

// seedApril sets up April 2024 with one weekday holiday, which leaves 21
// working days, and one filer earning 150,000 who worked 10 overtime hours.
func (f *fixture) seedApril() employee.Employee {
	f.store.AddHoliday(april(10), "Eid")

	emp := f.store.AddEmployee(employee.Employee{
		EmployeeCode: "EMP-001",
		FullName:     "Ayesha Khan",
		IsTaxFiler:   true,
	}, &employee.SalaryStructure{
		BasicSalary:        d(100000),
		HouseRentAllowance: d(30000),
		MedicalAllowance:   d(10000),
		TransportAllowance: d(5000),
		UtilityAllowance:   d(5000),
		OtherAllowances:    d(0),
		EffectiveFrom:      time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	two := d(2)
	for _, day := range []int{1, 2, 3, 4, 5} {
		f.store.AddAttendance(attendance.Attendance{EmployeeID: emp.ID, Date: april(day), Status: attendance.StatusPresent, OvertimeHours: &two})
	}
	for _, day := range []int{8, 9, 11, 12, 15, 16, 17, 18, 19, 22, 23, 24, 25, 26, 29, 30} {
		f.store.AddAttendance(attendance.Attendance{EmployeeID: emp.ID, Date: april(day), Status: attendance.StatusPresent})
	}
	return emp
}

func (f *fixture) createRun(t *testing.T, month, year int) payroll.RunResponse {
	t.Helper()
	run, err := f.svc.CreateRun(f.ctx, payroll.CreateRunRequest{Month: month, Year: year})
	require.NoError(t, err)
	return run
}

// ===== END TO END =====

func TestProcessRun_WorkedExample(t *testing.T) {
	f := newFixture(t)
	emp := f.seedApril()
	run := f.createRun(t, 4, 2024)

	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, string(payroll.RunStatusCompleted), processed.Status)
	require.NotNil(t, processed.ProcessedBy)
	assert.Equal(t, "admin-1", *processed.ProcessedBy)
	require.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *processed.ProcessedAt)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, slips, 1)

	p := slips[0]
	assert.Equal(t, emp.ID, p.EmployeeID)
	assert.Equal(t, 21, p.WorkingDays)
	assert.Equal(t, 21, p.PresentDays)
	assert.Equal(t, 0, p.AbsentDays)
	assert.True(t, p.OvertimeHours.Equal(d(10)))
	assert.True(t, p.OvertimePay.Equal(d(13393)), "overtime pay = %s", p.OvertimePay)
	assert.True(t, p.GrossSalary.Equal(d(163393)), "gross = %s", p.GrossSalary)
	assert.True(t, p.IncomeTax.Equal(d(9174)), "income tax = %s", p.IncomeTax)
	assert.True(t, p.EOBIEmployee.Equal(d(245)), "eobi employee = %s", p.EOBIEmployee)
	assert.True(t, p.EOBIEmployer.Equal(d(980)), "eobi employer = %s", p.EOBIEmployer)
	assert.True(t, p.SocialSecurityEmployer.Equal(d(188)), "social security = %s", p.SocialSecurityEmployer)
	assert.True(t, p.TotalDeductions.Equal(d(9419)), "total deductions = %s", p.TotalDeductions)
	assert.True(t, p.NetSalary.Equal(d(153974)), "net = %s", p.NetSalary)
	assert.Equal(t, "1,200,001 - 2,400,000", p.TaxBracket)
	assert.Equal(t, string(payroll.PayslipStatusDraft), p.Status)
	require.NotNil(t, p.EmployeeCode)
	assert.Equal(t, "EMP-001", *p.EmployeeCode)

	totals := processed.Totals
	assert.Equal(t, 1, totals.Employees)
	assert.True(t, totals.Gross.Equal(d(163393)))
	assert.True(t, totals.Tax.Equal(d(9174)))
	assert.True(t, totals.Deductions.Equal(d(9419)))
	assert.True(t, totals.Net.Equal(d(153974)))
	assert.True(t, totals.EmployerContributions.Equal(d(1168)))
}

func TestProcessRun_TotalsMatchPayslipSums(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	for i, gross := range []int64{45000, 98000, 260000, 720000} {
		f.store.AddEmployee(employee.Employee{
			EmployeeCode: "EMP-1" + string(rune('0'+i)),
			FullName:     "Worker",
			IsTaxFiler:   i%2 == 0,
		}, &employee.SalaryStructure{BasicSalary: d(gross), LoanDeduction: d(1000)})
	}
	run := f.createRun(t, 4, 2024)

	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, slips, 5)

	gross, net, tax, deducted := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range slips {
		gross = gross.Add(p.GrossSalary)
		net = net.Add(p.NetSalary)
		tax = tax.Add(p.IncomeTax)
		deducted = deducted.Add(p.TotalDeductions)
		assert.True(t, p.NetSalary.Equal(p.GrossSalary.Sub(p.TotalDeductions)))
	}

	assert.Equal(t, 5, processed.Totals.Employees)
	assert.True(t, processed.Totals.Gross.Equal(gross))
	assert.True(t, processed.Totals.Net.Equal(net))
	assert.True(t, processed.Totals.Tax.Equal(tax))
	assert.True(t, processed.Totals.Deductions.Equal(deducted))
}

func TestProcessRun_SkipsInactiveAndUnsalariedEmployees(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	gone := f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-900"}, &employee.SalaryStructure{BasicSalary: d(90000)})
	f.store.SetEmploymentStatus(gone.ID, employee.EmploymentStatusTerminated)
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-901"}, nil)
	run := f.createRun(t, 4, 2024)

	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, processed.Totals.Employees)
}

func TestProcessRun_NoEmployeesCompletesWithZeroTotals(t *testing.T) {
	f := newFixture(t)
	run := f.createRun(t, 4, 2024)

	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusCompleted), processed.Status)
	assert.Equal(t, 0, processed.Totals.Employees)
	assert.True(t, processed.Totals.Gross.IsZero())
}

func TestProcessRun_SalaryWithCents(t *testing.T) {
	f := newFixture(t)
	cents := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-010", IsTaxFiler: true},
		&employee.SalaryStructure{BasicSalary: cents("40000.03"), HouseRentAllowance: cents("10000.02")})
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-011", IsTaxFiler: true},
		&employee.SalaryStructure{BasicSalary: cents("100000.01")})
	run := f.createRun(t, 4, 2024)

	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusCompleted), processed.Status)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, slips, 2)

	assert.True(t, slips[0].GrossSalary.Equal(d(50000)), "gross = %s", slips[0].GrossSalary)
	assert.True(t, slips[0].IncomeTax.IsZero(), "income tax = %s", slips[0].IncomeTax)
	assert.Equal(t, "600,001 - 1,200,000", slips[0].TaxBracket)
	assert.True(t, slips[0].NetSalary.Equal(d(49925)), "net = %s", slips[0].NetSalary)

	assert.True(t, slips[1].IncomeTax.Equal(d(1250)), "income tax = %s", slips[1].IncomeTax)
	assert.Equal(t, "1,200,001 - 2,400,000", slips[1].TaxBracket)
	assert.True(t, slips[1].NetSalary.Equal(d(98600)), "net = %s", slips[1].NetSalary)

	assert.Equal(t, 2, processed.Totals.Employees)
	assert.True(t, processed.Totals.Gross.Equal(d(150000)), "total gross = %s", processed.Totals.Gross)
	assert.True(t, processed.Totals.Net.Equal(d(148525)), "total net = %s", processed.Totals.Net)
}

// ===== REPROCESSING =====

func TestProcessRun_ReprocessIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	run := f.createRun(t, 4, 2024)

	first, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	firstSlips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)

	_, err = f.svc.ResetRun(f.ctx, run.ID)
	require.NoError(t, err)

	second, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	secondSlips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Totals, second.Totals)
	require.Len(t, secondSlips, len(firstSlips))
	for i := range firstSlips {
		assert.Equal(t, firstSlips[i].EmployeeID, secondSlips[i].EmployeeID)
		assert.True(t, firstSlips[i].NetSalary.Equal(secondSlips[i].NetSalary))
		assert.True(t, firstSlips[i].GrossSalary.Equal(secondSlips[i].GrossSalary))
	}
}

func TestProcessRun_ReprocessReplacesStalePayslips(t *testing.T) {
	f := newFixture(t)
	emp := f.seedApril()
	leaver := f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-002", IsTaxFiler: true}, &employee.SalaryStructure{BasicSalary: d(80000)})
	run := f.createRun(t, 4, 2024)

	_, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	// A fix after the first pass: the leaver is terminated and the main
	// employee gets a raise.
	f.store.SetEmploymentStatus(leaver.ID, employee.EmploymentStatusTerminated)
	f.store.AddEmployee(emp, &employee.SalaryStructure{BasicSalary: d(200000)})

	_, err = f.svc.ResetRun(f.ctx, run.ID)
	require.NoError(t, err)
	reprocessed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, emp.ID, slips[0].EmployeeID)
	assert.True(t, slips[0].BasicSalary.Equal(d(200000)))
	assert.True(t, reprocessed.Totals.Gross.Equal(slips[0].GrossSalary))

	leaverSlips, err := f.svc.ListEmployeePayslips(f.ctx, leaver.ID)
	require.NoError(t, err)
	assert.Empty(t, leaverSlips)
}

// ===== STATE MACHINE =====

func assertInvalidState(t *testing.T, err error, actual payroll.RunStatus) {
	t.Helper()
	var stateErr *payroll.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, payroll.ErrInvalidState)
	assert.Equal(t, actual, stateErr.Actual)
}

func TestStateGuards(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	run := f.createRun(t, 4, 2024)

	_, err := f.svc.ApproveRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusDraft)

	_, err = f.svc.ExportRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusDraft)

	_, err = f.svc.ResetRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusDraft)

	_, err = f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	_, err = f.svc.ProcessRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusCompleted)

	_, err = f.svc.CancelRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusCompleted)

	approved, err := f.svc.ApproveRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)

	_, err = f.svc.ProcessRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusApproved)

	_, err = f.svc.ResetRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusApproved)

	_, err = f.svc.ApproveRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusApproved)
}

func TestApproveRun_CascadesToPayslips(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-002"}, &employee.SalaryStructure{BasicSalary: d(70000)})
	run := f.createRun(t, 4, 2024)

	_, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveRun(actorContext(t, "approver-7"), run.ID)
	require.NoError(t, err)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, slips, 2)
	for _, p := range slips {
		assert.Equal(t, string(payroll.PayslipStatusApproved), p.Status)
	}

	got, err := f.svc.GetRun(f.ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "approver-7", *got.ApprovedBy)
}

func TestProcessRun_UnknownRun(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ProcessRun(f.ctx, "f3f0a5d4-3b7e-4a59-9d3a-1b2c3d4e5f60")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}

func TestProcessRun_ConcurrentCallsProcessOnce(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	run := f.createRun(t, 4, 2024)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ProcessRun(f.ctx, run.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, payroll.ErrInvalidState):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)

	slips, err := f.svc.ListPayslips(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, slips, 1)
}

// ===== ROLLBACK =====

type failingPayslips struct {
	payroll.PayslipRepository
	failAfter int
	created   int
}

func (p *failingPayslips) Create(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	if p.created >= p.failAfter {
		return payroll.Payslip{}, errors.New("disk full")
	}
	p.created++
	return p.PayslipRepository.Create(ctx, slip)
}

func TestProcessRun_FailureRollsBackEverything(t *testing.T) {
	var failing *failingPayslips
	f := newFixture(t, func(deps *Dependencies) {
		failing = &failingPayslips{PayslipRepository: deps.PayslipRepo, failAfter: 1}
		deps.PayslipRepo = failing
	})
	f.seedApril()
	f.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-002"}, &employee.SalaryStructure{BasicSalary: d(70000)})
	run := f.createRun(t, 4, 2024)

	_, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.ErrorContains(t, err, "disk full")

	got, err := f.svc.GetRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusDraft), got.Status)
	assert.Equal(t, 0, got.Totals.Employees)
	assert.Nil(t, got.ProcessedAt)

	slips, err := f.payslips.ListByRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Empty(t, slips)

	// Once the fault clears the same run processes normally.
	failing.failAfter = 100
	processed, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, processed.Totals.Employees)
}

// ===== CREATE / CANCEL / UPDATE =====

func TestCreateRun(t *testing.T) {
	f := newFixture(t)

	first := f.createRun(t, 4, 2024)
	assert.Equal(t, string(payroll.RunStatusDraft), first.Status)
	assert.Equal(t, "2024-04-01", first.StartDate)
	assert.Equal(t, "2024-04-30", first.EndDate)
	require.NotNil(t, first.CreatedBy)
	assert.Equal(t, "admin-1", *first.CreatedBy)

	again := f.createRun(t, 4, 2024)
	assert.Equal(t, first.ID, again.ID)

	feb := f.createRun(t, 2, 2024)
	assert.Equal(t, "2024-02-29", feb.EndDate)
}

func TestCreateRun_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateRun(f.ctx, payroll.CreateRunRequest{Month: 13, Year: 1999})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")
	assert.Contains(t, verrs.ToMap(), "year")
}

func TestCreateRun_RequiresActor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateRun(context.Background(), payroll.CreateRunRequest{Month: 4, Year: 2024})
	assert.ErrorIs(t, err, payroll.ErrMissingActor)
}

func TestCreateRun_CancelledPeriod(t *testing.T) {
	f := newFixture(t)
	run := f.createRun(t, 4, 2024)

	cancelled, err := f.svc.CancelRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusCancelled), cancelled.Status)

	_, err = f.svc.CreateRun(f.ctx, payroll.CreateRunRequest{Month: 4, Year: 2024})
	assert.ErrorIs(t, err, payroll.ErrRunCancelled)

	_, err = f.svc.ProcessRun(f.ctx, run.ID)
	assertInvalidState(t, err, payroll.RunStatusCancelled)
}

func TestUpdateRun(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	run := f.createRun(t, 4, 2024)

	notes := "April payroll"
	date := "2024-05-05"
	updated, err := f.svc.UpdateRun(f.ctx, payroll.UpdateRunRequest{ID: run.ID, Notes: &notes, PaymentDate: &date})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, date, *updated.PaymentDate)

	bad := "05/05/2024"
	_, err = f.svc.UpdateRun(f.ctx, payroll.UpdateRunRequest{ID: run.ID, PaymentDate: &bad})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = f.svc.UpdateRun(f.ctx, payroll.UpdateRunRequest{ID: run.ID})
	require.ErrorAs(t, err, &verrs)

	_, err = f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveRun(f.ctx, run.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateRun(f.ctx, payroll.UpdateRunRequest{ID: run.ID, Notes: &notes})
	assertInvalidState(t, err, payroll.RunStatusApproved)
}

// ===== QUERIES =====

func TestListRuns(t *testing.T) {
	f := newFixture(t)
	for m := 1; m <= 3; m++ {
		f.createRun(t, m, 2024)
	}
	f.createRun(t, 12, 2023)

	year := 2024
	list, err := f.svc.ListRuns(f.ctx, payroll.RunFilter{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.TotalCount)
	assert.Equal(t, payroll.DefaultPage, list.Page)
	assert.Equal(t, payroll.DefaultLimit, list.Limit)
	require.Len(t, list.Data, 3)
	assert.Equal(t, 3, list.Data[0].Month)

	status := "paid"
	_, err = f.svc.ListRuns(f.ctx, payroll.RunFilter{Status: &status})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestPayslipLookups(t *testing.T) {
	f := newFixture(t)
	emp := f.seedApril()
	run := f.createRun(t, 4, 2024)
	_, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListEmployeePayslips(f.ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	one, err := f.svc.GetPayslip(f.ctx, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, one.PayrollRunID)

	_, err = f.svc.GetPayslip(f.ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)

	_, err = f.svc.ListEmployeePayslips(f.ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	_, err = f.svc.ListPayslips(f.ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}

// ===== EXPORT =====

func TestExportRun(t *testing.T) {
	f := newFixture(t)
	f.seedApril()
	run := f.createRun(t, 4, 2024)
	_, err := f.svc.ProcessRun(f.ctx, run.ID)
	require.NoError(t, err)

	file, err := f.svc.ExportRun(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "payroll-2024-04.xlsx", file.Filename)
	assert.Equal(t, xlsxContentType, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(payslipSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee Code", rows[0][0])
	assert.Equal(t, "EMP-001", rows[1][0])
	assert.Equal(t, "163393", rows[1][10])
	assert.Equal(t, "153974", rows[1][20])
	assert.Equal(t, "TOTAL", rows[2][0])
	assert.Equal(t, "153974", rows[2][20])

	summary, err := wb.GetRows(summarySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 10)
	assert.Equal(t, []string{"Period", "2024-04"}, summary[0])
	assert.Equal(t, []string{"Total Net", "153974"}, summary[8])
}

// ===== OVERTIME =====

func TestOvertimePay(t *testing.T) {
	rules := payroll.DefaultRules()

	assert.True(t, OvertimePay(d(150000), d(10), 21, rules).Equal(d(13393)))
	assert.True(t, OvertimePay(d(150000), d(10), 0, rules).IsZero())
	assert.True(t, OvertimePay(d(150000), decimal.Zero, 21, rules).IsZero())

	rules.OvertimeMultiplier = d(2)
	assert.True(t, OvertimePay(d(168000), d(1), 21, rules).Equal(d(2000)))
}
