package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is read-only; attendance is recorded elsewhere.
type AttendanceRepository interface {
	// ListByEmployeeAndRange returns records with start <= date <= end, ordered by date.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
}
