package holiday

import (
	"context"
	"time"
)

// HolidayRepository is read-only; holidays are configured elsewhere.
type HolidayRepository interface {
	// ListBetween returns holidays with start <= date <= end, ordered by date.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
