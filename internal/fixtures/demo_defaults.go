package fixtures

import (
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/repository/memory"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func since(year int) time.Time { return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC) }

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDemo holds IDs of the seeded demo data
type SeededDemo struct {
	// Employee IDs by code
	EmployeeIDs map[string]string // e.g., "EMP-001" -> "uuid"

	// Period the attendance was generated for
	Month int
	Year  int

	// Number of working days generated per employee
	WorkingDays int
}

// ==========================================
// DEFAULT EMPLOYEES
// ==========================================

// DemoEmployee is an employee with a current salary and an attendance
// pattern. AbsentWorkdays and OvertimeWorkdays are 1-based ordinals of
// the month's working days.
type DemoEmployee struct {
	Employee         employee.Employee
	Salary           employee.SalaryStructure
	AbsentWorkdays   []int
	OvertimeWorkdays []int
	OvertimeHours    decimal.Decimal
}

// GetDefaultEmployees returns a small staff covering every tax bracket
// shape the engine handles: below threshold, filer, non-filer, loan
// deduction and an inactive employee that must be skipped.
func GetDefaultEmployees() []DemoEmployee {
	return []DemoEmployee{
		{
			Employee: employee.Employee{EmployeeCode: "EMP-001", FullName: "Ayesha Khan", IsTaxFiler: true},
			Salary: employee.SalaryStructure{
				BasicSalary:        d(100000),
				HouseRentAllowance: d(30000),
				MedicalAllowance:   d(10000),
				TransportAllowance: d(5000),
				UtilityAllowance:   d(5000),
				EffectiveFrom:      since(2023),
			},
			OvertimeWorkdays: []int{1, 2, 3, 4, 5},
			OvertimeHours:    d(2),
		},
		{
			Employee: employee.Employee{EmployeeCode: "EMP-002", FullName: "Bilal Ahmed", IsTaxFiler: false},
			Salary: employee.SalaryStructure{
				BasicSalary:        d(220000),
				HouseRentAllowance: d(66000),
				MedicalAllowance:   d(22000),
				TransportAllowance: d(12000),
				UtilityAllowance:   d(10000),
				LoanDeduction:      d(15000),
				EffectiveFrom:      since(2022),
			},
			AbsentWorkdays: []int{7},
		},
		{
			Employee: employee.Employee{EmployeeCode: "EMP-003", FullName: "Sana Malik", IsTaxFiler: true},
			Salary: employee.SalaryStructure{
				BasicSalary:        d(30000),
				HouseRentAllowance: d(9000),
				MedicalAllowance:   d(3000),
				TransportAllowance: d(2000),
				EffectiveFrom:      since(2024),
			},
			AbsentWorkdays: []int{2, 3},
		},
		{
			Employee: employee.Employee{EmployeeCode: "EMP-004", FullName: "Usman Tariq", IsTaxFiler: true},
			Salary: employee.SalaryStructure{
				BasicSalary:        d(600000),
				HouseRentAllowance: d(180000),
				MedicalAllowance:   d(60000),
				OtherDeductions:    d(5000),
				EffectiveFrom:      since(2021),
			},
			OvertimeWorkdays: []int{10},
			OvertimeHours:    d(4),
		},
		{
			Employee: employee.Employee{
				EmployeeCode:     "EMP-005",
				FullName:         "Hina Raza",
				EmploymentStatus: employee.EmploymentStatusInactive,
				IsTaxFiler:       true,
			},
			Salary: employee.SalaryStructure{
				BasicSalary:   d(80000),
				EffectiveFrom: since(2023),
			},
		},
	}
}

// ==========================================
// DEFAULT HOLIDAYS
// ==========================================

// DemoHoliday is a fixed-date public holiday.
type DemoHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// GetDefaultHolidays returns the fixed-date public holidays of Pakistan
func GetDefaultHolidays() []DemoHoliday {
	return []DemoHoliday{
		{Month: time.February, Day: 5, Name: "Kashmir Solidarity Day"},
		{Month: time.March, Day: 23, Name: "Pakistan Day"},
		{Month: time.May, Day: 1, Name: "Labour Day"},
		{Month: time.August, Day: 14, Name: "Independence Day"},
		{Month: time.November, Day: 9, Name: "Iqbal Day"},
		{Month: time.December, Day: 25, Name: "Quaid-e-Azam Day"},
	}
}

// ==========================================
// SEEDING
// ==========================================

// SeedDemo loads the default holidays for year and the default employees
// into store, with one attendance record per working day of the period.
// Rest days and holidays get no record.
func SeedDemo(store *memory.Store, month, year int, rules payroll.Rules) *SeededDemo {
	holidays := make(map[time.Time]bool)
	for _, h := range GetDefaultHolidays() {
		date := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		store.AddHoliday(date, h.Name)
		holidays[date] = true
	}

	start, end := payroll.Period(month, year)
	workdays := []time.Time{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if rules.IsRestDay(day.Weekday()) || holidays[day] {
			continue
		}
		workdays = append(workdays, day)
	}

	seeded := &SeededDemo{
		EmployeeIDs: make(map[string]string),
		Month:       month,
		Year:        year,
		WorkingDays: len(workdays),
	}

	for _, demo := range GetDefaultEmployees() {
		salary := demo.Salary
		emp := store.AddEmployee(demo.Employee, &salary)
		seeded.EmployeeIDs[emp.EmployeeCode] = emp.ID

		absent := ordinals(demo.AbsentWorkdays)
		overtime := ordinals(demo.OvertimeWorkdays)

		records := make([]attendance.Attendance, 0, len(workdays))
		for i, day := range workdays {
			rec := attendance.Attendance{EmployeeID: emp.ID, Date: day, Status: attendance.StatusPresent}
			if absent[i+1] {
				rec.Status = attendance.StatusAbsent
			} else if overtime[i+1] {
				hours := demo.OvertimeHours
				rec.OvertimeHours = &hours
			}
			records = append(records, rec)
		}
		store.AddAttendance(records...)
	}

	return seeded
}

func ordinals(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, n := range days {
		set[n] = true
	}
	return set
}
