package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
	StatusWeekend Status = "weekend"
)

// Attendance is one employee's record for one calendar day.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Status        Status
	OvertimeHours *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary is the reduction of an employee's attendance over a period.
type Summary struct {
	EmployeeID    string
	PresentDays   int
	AbsentDays    int
	LeaveDays     int
	OvertimeHours decimal.Decimal
}
