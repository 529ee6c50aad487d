// Package forms builds the per-day edit and create forms for the planner
// view: one blank form per grid day plus one bound form per existing
// schedule, validated and saved as a set.
package forms

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/teambition/rrule-go"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/schedule"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"

	blankPrefix = "new"
	editPrefix  = "edit"
)

// Form is a single schedule form. Blank (create) forms have a nil Schedule;
// edit forms wrap the existing record they update.
type Form struct {
	Schedule *schedule.Schedule

	Summary     string
	Description string
	StartTime   string
	EndTime     string
	DateStr     string
	RRule       string

	// Index is the position of a blank form within its form set.
	Index int

	// Filled marks a blank form that received submitted data. Untouched
	// blank forms are skipped on save, the way empty extra forms are.
	Filled bool
}

// IsBlank reports whether this is a create form.
func (f *Form) IsBlank() bool {
	return f.Schedule == nil
}

// FieldPrefix returns the name prefix of the form's input fields, e.g.
// "new-4" or "edit-17".
func (f *Form) FieldPrefix() string {
	if f.IsBlank() {
		return fmt.Sprintf("%s-%d", blankPrefix, f.Index)
	}
	return fmt.Sprintf("%s-%d", editPrefix, f.Schedule.ID)
}

// Date returns the form's calendar day.
func (f *Form) Date() (time.Time, error) {
	if f.DateStr == "" {
		return time.Time{}, fmt.Errorf("form %s has no date", f.FieldPrefix())
	}
	d, err := time.Parse(dateFormat, f.DateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("form %s has invalid date %q: %w", f.FieldPrefix(), f.DateStr, err)
	}
	return calgrid.DateOf(d), nil
}

// SetInitialDate pre-populates the form's date unless a date was already
// submitted.
func (f *Form) SetInitialDate(day time.Time) {
	if f.DateStr == "" {
		f.DateStr = day.Format(dateFormat)
	}
}

// Validate checks the form's field values. All violations are reported
// together.
func (f *Form) Validate() error {
	var errs *multierror.Error

	if f.Summary == "" {
		errs = multierror.Append(errs, fmt.Errorf("summary is required"))
	}
	if len([]rune(f.Summary)) > schedule.MaxSummaryLength {
		errs = multierror.Append(errs, fmt.Errorf("summary exceeds %d characters", schedule.MaxSummaryLength))
	}

	if _, err := f.Date(); err != nil {
		errs = multierror.Append(errs, err)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"start_time", f.StartTime},
		{"end_time", f.EndTime},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse(timeFormat, field.value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s %q is not a valid HH:MM time", field.name, field.value))
		}
	}

	if f.RRule != "" {
		if _, err := rrule.StrToRRule(f.RRule); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid recurrence rule %q: %w", f.RRule, err))
		}
	}

	return errs.ErrorOrNil()
}

// toSchedule builds the schedule entry described by the form's current
// field values. The form must validate first.
func (f *Form) toSchedule() (*schedule.Schedule, error) {
	date, err := f.Date()
	if err != nil {
		return nil, err
	}

	sched := &schedule.Schedule{
		Summary:     f.Summary,
		Description: f.Description,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Date:        date,
		RRule:       f.RRule,
	}
	if f.Schedule != nil {
		sched.ID = f.Schedule.ID
		sched.CreatedAt = f.Schedule.CreatedAt
	}
	return sched, nil
}
