// Package rediscache decorates read-only repositories with a Redis cache.
package rediscache

import (
	"context"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/holiday"
	"github.com/alimalikali/payrollx-server/internal/pkg/cache"
)

type holidayRepository struct {
	next  holiday.HolidayRepository
	cache *cache.Cache
}

// NewHolidayRepository caches ListBetween results of next per date range.
func NewHolidayRepository(next holiday.HolidayRepository, c *cache.Cache) holiday.HolidayRepository {
	return &holidayRepository{next: next, cache: c}
}

func (r *holidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	key := r.cache.Key("between", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var result []holiday.Holiday
	err := r.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return r.next.ListBetween(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
