package memory

import (
	"context"
	"sort"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/holiday"
)

// ========== EMPLOYEES ==========

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.employees[id]
	return ok, nil
}

func (r *employeeRepository) ListPayable(_ context.Context) ([]employee.PayableEmployee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []employee.PayableEmployee{}
	for id, e := range r.s.employees {
		if e.EmploymentStatus != employee.EmploymentStatusActive {
			continue
		}
		salary, ok := r.s.salaries[id]
		if !ok || !salary.IsCurrent {
			continue
		}
		result = append(result, employee.PayableEmployee{Employee: e, Salary: salary})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeCode < result[j].EmployeeCode
	})
	return result, nil
}

// ========== ATTENDANCE ==========

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) ListByEmployeeAndRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []attendance.Attendance{}
	for _, a := range r.s.attendance[employeeID] {
		if inRange(a.Date, start, end) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// ========== HOLIDAYS ==========

type holidayRepository struct {
	s *Store
}

func NewHolidayRepository(s *Store) holiday.HolidayRepository {
	return &holidayRepository{s: s}
}

func (r *holidayRepository) ListBetween(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []holiday.Holiday{}
	for _, h := range r.s.holidays {
		if inRange(h.Date, start, end) {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
