package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/raspored-app/raspored/internal/logging"
	"github.com/raspored-app/raspored/internal/schedule"
)

// ErrInvalidForms marks save failures caused by validation, so callers can
// tell them apart from storage errors.
var ErrInvalidForms = errors.New("form set failed validation")

// Saver is the subset of the schedule store the form set writes through.
type Saver interface {
	Create(ctx context.Context, sched *schedule.Schedule) (*schedule.Schedule, error)
	Update(ctx context.Context, sched *schedule.Schedule) error
}

// FormSet is the collection of forms for one planner view: blank create
// forms plus one edit form per existing schedule.
type FormSet struct {
	Blank []*Form
	Bound []*Form

	submitted bool
}

// IsSubmitted reports whether the set was built from submitted data.
func (fs *FormSet) IsSubmitted() bool {
	return fs.submitted
}

// Forms returns all forms: blank ones first, then the edit forms in record
// order.
func (fs *FormSet) Forms() []*Form {
	forms := make([]*Form, 0, len(fs.Blank)+len(fs.Bound))
	forms = append(forms, fs.Blank...)
	forms = append(forms, fs.Bound...)
	return forms
}

// Validate checks every form that would be saved, reporting all violations
// together keyed by field prefix.
func (fs *FormSet) Validate() error {
	var errs *multierror.Error
	for _, f := range fs.Blank {
		if !f.Filled {
			continue
		}
		if err := f.Validate(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", f.FieldPrefix(), err))
		}
	}
	for _, f := range fs.Bound {
		if err := f.Validate(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", f.FieldPrefix(), err))
		}
	}
	return errs.ErrorOrNil()
}

// Save writes the submitted forms through the store: filled blank forms
// create new schedules, edit forms update their records. The set must have
// been built from submitted data and must validate.
func (fs *FormSet) Save(ctx context.Context, store Saver) error {
	if !fs.submitted {
		return fmt.Errorf("cannot save a form set that was not built from submitted data")
	}
	if err := fs.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForms, err)
	}

	for _, f := range fs.Blank {
		if !f.Filled {
			continue
		}
		sched, err := f.toSchedule()
		if err != nil {
			return err
		}
		if _, err := store.Create(ctx, sched); err != nil {
			return fmt.Errorf("failed to save %s: %w", f.FieldPrefix(), err)
		}
	}

	for _, f := range fs.Bound {
		sched, err := f.toSchedule()
		if err != nil {
			return err
		}
		if err := store.Update(ctx, sched); err != nil {
			return fmt.Errorf("failed to save %s: %w", f.FieldPrefix(), err)
		}
	}

	return nil
}

// Factory builds form sets, playing the form-factory role for the planner
// view.
type Factory struct {
	logger zerolog.Logger
}

// NewFactory creates a form factory
func NewFactory() *Factory {
	return &Factory{logger: logging.GetLogger("form-factory")}
}

// NewFormSet builds a set of extra blank forms plus one edit form per
// existing schedule. When submitted is non-nil the forms are populated from
// it (a POST); otherwise edit forms are prefilled from their records and
// blank forms stay empty (a GET).
func (fac *Factory) NewFormSet(extra int, existing []*schedule.Schedule, submitted url.Values) (*FormSet, error) {
	if extra < 0 {
		return nil, fmt.Errorf("extra form count must not be negative, got %d", extra)
	}

	fs := &FormSet{submitted: submitted != nil}

	for i := 0; i < extra; i++ {
		f := &Form{Index: i}
		if fs.submitted {
			fac.populate(f, submitted)
			f.Filled = f.Summary != "" || f.Description != ""
		}
		fs.Blank = append(fs.Blank, f)
	}

	for _, sched := range existing {
		if sched.Occurrence {
			// Occurrences are projections of a base record; only the base
			// gets an edit form.
			continue
		}
		f := &Form{Schedule: sched}
		if fs.submitted {
			fac.populate(f, submitted)
			f.Filled = true
		} else {
			fac.prefill(f, sched)
		}
		fs.Bound = append(fs.Bound, f)
	}

	fac.logger.Debug().
		Int("blank_forms", len(fs.Blank)).
		Int("bound_forms", len(fs.Bound)).
		Bool("submitted", fs.submitted).
		Msg("Form set built")
	return fs, nil
}

// populate fills a form's fields from submitted values using its field
// prefix.
func (fac *Factory) populate(f *Form, submitted url.Values) {
	prefix := f.FieldPrefix()
	f.Summary = submitted.Get(prefix + "-summary")
	f.Description = submitted.Get(prefix + "-description")
	f.StartTime = submitted.Get(prefix + "-start_time")
	f.EndTime = submitted.Get(prefix + "-end_time")
	f.DateStr = submitted.Get(prefix + "-date")
	f.RRule = submitted.Get(prefix + "-rrule")
}

// prefill fills an edit form's fields from its underlying record.
func (fac *Factory) prefill(f *Form, sched *schedule.Schedule) {
	f.Summary = sched.Summary
	f.Description = sched.Description
	f.StartTime = sched.StartTime
	f.EndTime = sched.EndTime
	f.DateStr = sched.Date.Format(dateFormat)
	f.RRule = sched.RRule
}
