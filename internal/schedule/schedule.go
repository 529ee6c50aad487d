// Package schedule defines the schedule entity and its SQLite-backed store,
// the record source consumed by the calendar views.
package schedule

import "time"

// MaxSummaryLength is the upper bound for the summary field.
const MaxSummaryLength = 50

// DefaultTime is the default start and end time of day for new schedules.
const DefaultTime = "07:00"

// Schedule is a single schedule entry. StartTime and EndTime are times of
// day in "HH:MM" form; Date is the calendar day the entry belongs to.
type Schedule struct {
	ID          int64
	Summary     string
	Description string
	StartTime   string
	EndTime     string
	Date        time.Time
	RRule       string // optional iCalendar recurrence rule
	CreatedAt   time.Time

	// Occurrence marks an expanded instance of a recurring schedule. Such
	// instances are read-only projections; ID refers to the base entry.
	Occurrence bool
}

// ScheduleDate returns the calendar day of the entry. It is the date
// accessor the binder aligns records by.
func (s *Schedule) ScheduleDate() time.Time {
	return s.Date
}

// IsRecurring reports whether the entry carries a recurrence rule.
func (s *Schedule) IsRecurring() bool {
	return s.RRule != ""
}
