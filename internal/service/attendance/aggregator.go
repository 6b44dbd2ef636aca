package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type AggregatorImpl struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAggregator(attendanceRepo attendance.AttendanceRepository) attendance.Aggregator {
	return &AggregatorImpl{attendanceRepo: attendanceRepo}
}

// Aggregate loads an employee's records for [start, end] and summarizes them.
func (a *AggregatorImpl) Aggregate(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, error) {
	if end.Before(start) {
		return attendance.Summary{}, attendance.ErrInvalidRange
	}

	records, err := a.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to load attendance for employee %s: %w", employeeID, err)
	}

	summary := Summarize(records)
	summary.EmployeeID = employeeID
	return summary, nil
}

// Summarize counts present, absent and leave days and sums overtime hours
// over every record. Late and half-day records count as present. Holiday and
// weekend records add to no day count.
func Summarize(records []attendance.Attendance) attendance.Summary {
	summary := attendance.Summary{OvertimeHours: decimal.Zero}

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent, attendance.StatusLate, attendance.StatusHalfDay:
			summary.PresentDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		case attendance.StatusLeave:
			summary.LeaveDays++
		}

		if r.OvertimeHours != nil {
			summary.OvertimeHours = summary.OvertimeHours.Add(*r.OvertimeHours)
		}
	}

	return summary
}
