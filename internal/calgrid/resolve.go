package calgrid

import (
	"fmt"
	"time"
)

// Clock supplies the current date. Handlers pass a Clock explicitly instead
// of reaching for time.Now so that views are testable with a fixed date.
type Clock interface {
	Today() time.Time
}

// SystemClock is the real-world Clock.
type SystemClock struct{}

// Today returns the current calendar date at midnight UTC.
func (SystemClock) Today() time.Time {
	return DateOf(time.Now())
}

// Params carries the optional year/month/day request parameters, as parsed
// from a URL. A zero value means the parameter was not supplied.
type Params struct {
	Year  int
	Month int
	Day   int
}

// InvalidDateError reports an explicit year/month/day combination that does
// not name a real calendar date, such as day 31 in a 30-day month.
type InvalidDateError struct {
	Year  int
	Month int
	Day   int
}

func (e *InvalidDateError) Error() string {
	if e.Day == 0 {
		return fmt.Sprintf("invalid date: year %d month %d", e.Year, e.Month)
	}
	return fmt.Sprintf("invalid date: %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

// ResolveMonth returns the first day of the month named by params, or the
// first day of the clock's current month when year or month is absent.
func ResolveMonth(clock Clock, params Params) (time.Time, error) {
	if params.Year == 0 || params.Month == 0 {
		today := clock.Today()
		return Date(today.Year(), today.Month(), 1), nil
	}
	if params.Month < 1 || params.Month > 12 {
		return time.Time{}, &InvalidDateError{Year: params.Year, Month: params.Month}
	}
	return Date(params.Year, time.Month(params.Month), 1), nil
}

// ResolveDay returns the date named by params, or the clock's current date
// when any of year, month or day is absent.
func ResolveDay(clock Clock, params Params) (time.Time, error) {
	if params.Year == 0 || params.Month == 0 || params.Day == 0 {
		return clock.Today(), nil
	}
	if params.Month < 1 || params.Month > 12 {
		return time.Time{}, &InvalidDateError{Year: params.Year, Month: params.Month, Day: params.Day}
	}
	// time.Date normalizes out-of-range days into the following month, so a
	// round-trip mismatch means the combination was not a real date.
	d := Date(params.Year, time.Month(params.Month), params.Day)
	if d.Year() != params.Year || d.Month() != time.Month(params.Month) || d.Day() != params.Day {
		return time.Time{}, &InvalidDateError{Year: params.Year, Month: params.Month, Day: params.Day}
	}
	return d, nil
}
