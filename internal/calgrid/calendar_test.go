package calgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raspored-app/raspored/internal/constants"
)

// Helper to create time.Time from YYYY-MM-DD string
func date(t *testing.T, dateStr string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date '%s': %v", dateStr, err)
	}
	return tm
}

func mondayCalendar(t *testing.T) Calendar {
	t.Helper()
	cal, err := New(0, constants.DefaultWeekLabels)
	require.NoError(t, err)
	return cal
}

func TestNew(t *testing.T) {
	_, err := New(-1, constants.DefaultWeekLabels)
	assert.Error(t, err)

	_, err = New(7, constants.DefaultWeekLabels)
	assert.Error(t, err)

	for fw := 0; fw <= 6; fw++ {
		_, err := New(fw, constants.DefaultWeekLabels)
		assert.NoError(t, err)
	}
}

func TestMonthGrid(t *testing.T) {
	testCases := []struct {
		name          string
		firstWeekday  int
		year          int
		month         time.Month
		expectedStart string
		expectedEnd   string
		expectedWeeks int
	}{
		{
			name:          "February leap year, Monday start",
			firstWeekday:  0,
			year:          2024,
			month:         time.February,
			expectedStart: "2024-01-29", // Monday
			expectedEnd:   "2024-03-03", // Sunday
			expectedWeeks: 5,
		},
		{
			name:          "Regular month (April 2025), Monday start",
			firstWeekday:  0,
			year:          2025,
			month:         time.April,
			expectedStart: "2025-03-31",
			expectedEnd:   "2025-05-04",
			expectedWeeks: 5,
		},
		{
			name:          "Month starting on the first weekday (Jan 2024)",
			firstWeekday:  0,
			year:          2024,
			month:         time.January,
			expectedStart: "2024-01-01",
			expectedEnd:   "2024-02-04",
			expectedWeeks: 5,
		},
		{
			name:          "Month ending on the last weekday (Dec 2023)",
			firstWeekday:  0,
			year:          2023,
			month:         time.December,
			expectedStart: "2023-11-27",
			expectedEnd:   "2023-12-31",
			expectedWeeks: 5,
		},
		{
			name:          "February leap year, Sunday start",
			firstWeekday:  6,
			year:          2024,
			month:         time.February,
			expectedStart: "2024-01-28", // Sunday
			expectedEnd:   "2024-03-02", // Saturday
			expectedWeeks: 5,
		},
		{
			name:          "Six week month (March 2025, Sunday start)",
			firstWeekday:  6,
			year:          2025,
			month:         time.March,
			expectedStart: "2025-02-23",
			expectedEnd:   "2025-04-05",
			expectedWeeks: 6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cal, err := New(tc.firstWeekday, constants.DefaultWeekLabels)
			require.NoError(t, err)

			grid := cal.MonthGrid(tc.year, tc.month)

			assert.Len(t, grid, tc.expectedWeeks, "week count mismatch")
			assert.Equal(t, date(t, tc.expectedStart), grid.First(), "grid start mismatch")
			assert.Equal(t, date(t, tc.expectedEnd), grid.Last(), "grid end mismatch")
			assert.Equal(t, tc.expectedWeeks*7, grid.DayCount())
		})
	}
}

func TestMonthGridProperties(t *testing.T) {
	// Every week has 7 days, days increase strictly by one calendar day
	// across the whole grid, and the grid contains every day of the month.
	cal := mondayCalendar(t)

	for _, ym := range []struct {
		year  int
		month time.Month
	}{
		{2024, time.February},
		{2025, time.February},
		{2023, time.December},
		{2024, time.January},
		{2025, time.August},
	} {
		grid := cal.MonthGrid(ym.year, ym.month)

		var all []time.Time
		for _, week := range grid {
			require.Len(t, week, 7)
			all = append(all, week...)
		}

		for i := 1; i < len(all); i++ {
			assert.Equal(t, all[i-1].AddDate(0, 0, 1), all[i], "days must be consecutive")
		}

		first := Date(ym.year, ym.month, 1)
		last := first.AddDate(0, 1, -1)
		assert.False(t, grid.First().After(first), "grid must start on or before the 1st")
		assert.False(t, grid.Last().Before(last), "grid must end on or after the last day")
	}
}

func TestWeekLabels(t *testing.T) {
	for fw := 0; fw <= 6; fw++ {
		cal, err := New(fw, constants.DefaultWeekLabels)
		require.NoError(t, err)

		labels := cal.WeekLabels()
		assert.Equal(t, constants.DefaultWeekLabels[fw], labels[0], "label[0] must match first weekday %d", fw)
		for i := range labels {
			assert.Equal(t, constants.DefaultWeekLabels[(fw+i)%7], labels[i])
		}
	}
}

func TestWeekContaining(t *testing.T) {
	cal := mondayCalendar(t)

	week, err := cal.WeekContaining(date(t, "2024-02-15"))
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, date(t, "2024-02-12"), week.First())
	assert.Equal(t, date(t, "2024-02-18"), week.Last())

	// Padding days resolve to the same week as their in-month neighbours.
	week, err = cal.WeekContaining(date(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, date(t, "2024-02-26"), week.First())
	assert.Equal(t, date(t, "2024-03-03"), week.Last())
}

func TestNavigators(t *testing.T) {
	assert.Equal(t, date(t, "2023-12-01"), PreviousMonth(date(t, "2024-01-01")), "previous month wraps year at January")
	assert.Equal(t, date(t, "2025-01-01"), NextMonth(date(t, "2024-12-01")), "next month wraps year at December")
	assert.Equal(t, date(t, "2024-03-01"), NextMonth(date(t, "2024-02-01")))
	assert.Equal(t, date(t, "2024-02-05"), PreviousWeek(date(t, "2024-02-12")))
	assert.Equal(t, date(t, "2024-02-19"), NextWeek(date(t, "2024-02-12")))

	// Round trip for every month of a leap year.
	for month := time.January; month <= time.December; month++ {
		d := Date(2024, month, 1)
		assert.Equal(t, d, PreviousMonth(NextMonth(d)))
		assert.Equal(t, d, NextMonth(PreviousMonth(d)))
	}
}
