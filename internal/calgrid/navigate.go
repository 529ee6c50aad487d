package calgrid

import "time"

// PreviousMonth returns the first day of the month before the given
// first-of-month date, wrapping the year boundary at January.
func PreviousMonth(firstOfMonth time.Time) time.Time {
	year, month, _ := firstOfMonth.Date()
	if month == time.January {
		return Date(year-1, time.December, 1)
	}
	return Date(year, month-1, 1)
}

// NextMonth returns the first day of the month after the given
// first-of-month date, wrapping the year boundary at December.
func NextMonth(firstOfMonth time.Time) time.Time {
	year, month, _ := firstOfMonth.Date()
	if month == time.December {
		return Date(year+1, time.January, 1)
	}
	return Date(year, month+1, 1)
}

// PreviousWeek returns the day one week before the given day.
func PreviousWeek(firstDayOfWeek time.Time) time.Time {
	return firstDayOfWeek.AddDate(0, 0, -7)
}

// NextWeek returns the day one week after the given day.
func NextWeek(firstDayOfWeek time.Time) time.Time {
	return firstDayOfWeek.AddDate(0, 0, 7)
}
