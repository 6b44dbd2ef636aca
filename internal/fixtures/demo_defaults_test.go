package fixtures

import (
	"context"
	"testing"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/repository/memory"
	attendanceService "github.com/alimalikali/payrollx-server/internal/service/attendance"
	"github.com/alimalikali/payrollx-server/internal/service/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rules := payroll.DefaultRules()

	// May 2024 has 23 weekdays and Labour Day falls on a Wednesday.
	seeded := SeedDemo(store, 5, 2024, rules)
	assert.Equal(t, 22, seeded.WorkingDays)
	assert.Len(t, seeded.EmployeeIDs, len(GetDefaultEmployees()))

	resolved, err := calendar.NewResolver(memory.NewHolidayRepository(store), rules).WorkingDays(ctx, 5, 2024)
	require.NoError(t, err)
	assert.Equal(t, seeded.WorkingDays, resolved)

	payable, err := memory.NewEmployeeRepository(store).ListPayable(ctx)
	require.NoError(t, err)
	codes := make([]string, 0, len(payable))
	for _, p := range payable {
		codes = append(codes, p.EmployeeCode)
	}
	assert.Equal(t, []string{"EMP-001", "EMP-002", "EMP-003", "EMP-004"}, codes)

	start, end := payroll.Period(5, 2024)
	agg := attendanceService.NewAggregator(memory.NewAttendanceRepository(store))

	tests := []struct {
		code     string
		present  int
		absent   int
		overtime int64
	}{
		{code: "EMP-001", present: 22, absent: 0, overtime: 10},
		{code: "EMP-002", present: 21, absent: 1, overtime: 0},
		{code: "EMP-003", present: 20, absent: 2, overtime: 0},
		{code: "EMP-004", present: 22, absent: 0, overtime: 4},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			summary, err := agg.Aggregate(ctx, seeded.EmployeeIDs[tt.code], start, end)
			require.NoError(t, err)
			assert.Equal(t, tt.present, summary.PresentDays)
			assert.Equal(t, tt.absent, summary.AbsentDays)
			assert.True(t, summary.OvertimeHours.Equal(decimal.NewFromInt(tt.overtime)), "overtime = %s", summary.OvertimeHours)
		})
	}
}

func TestGetDefaultHolidays_AreValidDates(t *testing.T) {
	for _, h := range GetDefaultHolidays() {
		assert.NotEmpty(t, h.Name)
		assert.GreaterOrEqual(t, h.Day, 1)
		assert.LessOrEqual(t, h.Day, 31)
	}
}
