// Package memory provides in-process repositories backed by maps. They are
// used by tests and by the API when APP_STORE=memory.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/holiday"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/google/uuid"
)

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	runs       map[string]payroll.PayrollRun
	payslips   map[string]payroll.Payslip
	employees  map[string]employee.Employee
	salaries   map[string]employee.SalaryStructure
	attendance map[string][]attendance.Attendance
	holidays   []holiday.Holiday

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		runs:       make(map[string]payroll.PayrollRun),
		payslips:   make(map[string]payroll.Payslip),
		employees:  make(map[string]employee.Employee),
		salaries:   make(map[string]employee.SalaryStructure),
		attendance: make(map[string][]attendance.Attendance),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func newID() string {
	return uuid.NewString()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type snapshot struct {
	runs     map[string]payroll.PayrollRun
	payslips map[string]payroll.Payslip
}

type txKey struct{}

// WithinTransaction serializes fn against other transactions and restores
// the run and payslip tables if fn fails. A nested call joins the outer
// transaction. Writes outside a transaction wait for it to finish, so a
// rollback never discards them. Reads outside a transaction may observe
// uncommitted writes.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// lockWrite serializes a run or payslip write made outside a transaction
// with running transactions. It returns the matching unlock.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTransaction(ctx) {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		runs:     maps.Clone(s.runs),
		payslips: maps.Clone(s.payslips),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = snap.runs
	s.payslips = snap.payslips
}

// =============================================================================
// SEEDING
// =============================================================================

// AddEmployee stores e and, when salary is non-nil, makes it e's current
// salary structure.
func (s *Store) AddEmployee(e employee.Employee, salary *employee.SalaryStructure) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = newID()
	}
	if e.EmploymentStatus == "" {
		e.EmploymentStatus = employee.EmploymentStatusActive
	}
	now := s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	s.employees[e.ID] = e

	if salary != nil {
		sal := *salary
		if sal.ID == "" {
			sal.ID = newID()
		}
		sal.EmployeeID = e.ID
		sal.IsCurrent = true
		s.salaries[e.ID] = sal
	}
	return e
}

// SetEmploymentStatus changes an employee's status.
func (s *Store) SetEmploymentStatus(employeeID string, status employee.EmploymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.employees[employeeID]; ok {
		e.EmploymentStatus = status
		s.employees[employeeID] = e
	}
}

// AddAttendance appends daily records.
func (s *Store) AddAttendance(records ...attendance.Attendance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.ID == "" {
			r.ID = newID()
		}
		s.attendance[r.EmployeeID] = append(s.attendance[r.EmployeeID], r)
	}
}

// AddHoliday appends a holiday.
func (s *Store) AddHoliday(date time.Time, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, holiday.Holiday{
		ID:        newID(),
		Date:      date,
		Name:      name,
		CreatedAt: s.now(),
	})
}

func inRange(d, start, end time.Time) bool {
	day := dateOnly(d)
	return !day.Before(dateOnly(start)) && !day.After(dateOnly(end))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
