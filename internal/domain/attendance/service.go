package attendance

import (
	"context"
	"time"
)

// Aggregator reduces an employee's daily records over a period.
type Aggregator interface {
	Aggregate(ctx context.Context, employeeID string, start, end time.Time) (Summary, error)
}
