// Package calgrid computes calendar grids for month and week views: the
// ordered set of weeks covering a month, padded with adjacent-month days so
// that every displayed week is complete.
package calgrid

import (
	"errors"
	"fmt"
	"time"
)

// ErrDayNotInGrid is returned when a date cannot be located inside its own
// month grid. Given correct grid construction this never happens; hitting it
// indicates a bug in the caller or in the grid math.
var ErrDayNotInGrid = errors.New("day not found in its month grid")

// Week is an ordered sequence of exactly 7 consecutive days.
type Week []time.Time

// First returns the first day of the week.
func (w Week) First() time.Time {
	return w[0]
}

// Last returns the last day of the week.
func (w Week) Last() time.Time {
	return w[len(w)-1]
}

// MonthGrid is the ordered set of weeks covering a month, including overflow
// days from the previous and next months.
type MonthGrid []Week

// First returns the first day of the grid (possibly in the previous month).
func (g MonthGrid) First() time.Time {
	return g[0].First()
}

// Last returns the last day of the grid (possibly in the next month).
func (g MonthGrid) Last() time.Time {
	return g[len(g)-1].Last()
}

// DayCount returns the total number of days in the grid, always a multiple
// of 7.
func (g MonthGrid) DayCount() int {
	return len(g) * 7
}

// Calendar computes grids for a configured first weekday.
//
// The first weekday follows the displayed-week convention: 0 is Monday and
// 6 is Sunday. Week labels are stored Monday-first and rotated on access.
type Calendar struct {
	firstWeekday int
	labels       [7]string
}

// New creates a Calendar. firstWeekday must be in 0..6 (0 = Monday) and
// labels are the Monday-first display names for the days of the week.
func New(firstWeekday int, labels [7]string) (Calendar, error) {
	if firstWeekday < 0 || firstWeekday > 6 {
		return Calendar{}, fmt.Errorf("first weekday must be in 0..6, got %d", firstWeekday)
	}
	return Calendar{firstWeekday: firstWeekday, labels: labels}, nil
}

// FirstWeekday returns the configured first weekday (0 = Monday).
func (c Calendar) FirstWeekday() int {
	return c.firstWeekday
}

// WeekLabels returns the week labels rotated so that index 0 corresponds to
// the configured first weekday.
func (c Calendar) WeekLabels() [7]string {
	var rotated [7]string
	for i := range rotated {
		rotated[i] = c.labels[(c.firstWeekday+i)%7]
	}
	return rotated
}

// offsetInWeek returns how many days d lies after the start of its displayed
// week. Go weekdays are Sunday-based, ours are Monday-based.
func (c Calendar) offsetInWeek(d time.Time) int {
	mondayFirst := (int(d.Weekday()) + 6) % 7
	return (mondayFirst - c.firstWeekday + 7) % 7
}

// MonthGrid returns the complete weeks covering the given month, from the
// week containing the 1st through the week containing the last day. All
// returned dates are at midnight UTC.
func (c Calendar) MonthGrid(year int, month time.Month) MonthGrid {
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -c.offsetInWeek(first))
	end := last.AddDate(0, 0, 6-c.offsetInWeek(last))

	var grid MonthGrid
	week := make(Week, 0, 7)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		week = append(week, d)
		if len(week) == 7 {
			grid = append(grid, week)
			week = make(Week, 0, 7)
		}
	}
	return grid
}

// WeekContaining computes the month grid containing date and returns the
// week whose days include it.
func (c Calendar) WeekContaining(date time.Time) (Week, error) {
	date = DateOf(date)
	for _, week := range c.MonthGrid(date.Year(), date.Month()) {
		for _, day := range week {
			if day.Equal(date) {
				return week, nil
			}
		}
	}
	return nil, ErrDayNotInGrid
}

// Date constructs a pure date value: midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date, at midnight UTC.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}
