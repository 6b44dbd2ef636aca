package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/holiday"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
)

const dateKey = "2006-01-02"

// Resolver counts working days in a month from the weekly rest days in
// payroll.Rules and the holidays the repository returns.
type Resolver struct {
	holidayRepo holiday.HolidayRepository
	restDays    map[time.Weekday]bool
}

func NewResolver(holidayRepo holiday.HolidayRepository, rules payroll.Rules) *Resolver {
	rest := make(map[time.Weekday]bool, len(rules.RestDays))
	for _, d := range rules.RestDays {
		rest[d] = true
	}
	return &Resolver{holidayRepo: holidayRepo, restDays: rest}
}

// Period returns the first and last day of the month.
func (r *Resolver) Period(month, year int) (time.Time, time.Time) {
	return payroll.Period(month, year)
}

// WorkingDays returns the number of days in the month that are neither a
// rest day nor a holiday. A holiday falling on a rest day is counted once.
func (r *Resolver) WorkingDays(ctx context.Context, month, year int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month %d", month)
	}

	start, end := r.Period(month, year)

	holidays, err := r.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to load holidays for %d-%02d: %w", year, month, err)
	}

	off := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		off[h.Date.Format(dateKey)] = true
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if r.restDays[d.Weekday()] || off[d.Format(dateKey)] {
			continue
		}
		count++
	}
	return count, nil
}
