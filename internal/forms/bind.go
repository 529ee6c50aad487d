package forms

import (
	"fmt"
	"net/url"
	"time"

	"github.com/raspored-app/raspored/internal/binder"
	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/schedule"
)

// ConfigurationError reports a mismatch between the number of grid days and
// the number of blank forms produced for them.
type ConfigurationError struct {
	Days       int
	BlankForms int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("form count mismatch: %d grid days but %d blank forms", e.Days, e.BlankForms)
}

// FormFactory produces form sets for the planner view. *Factory is the
// production implementation.
type FormFactory interface {
	NewFormSet(extra int, existing []*schedule.Schedule, submitted url.Values) (*FormSet, error)
}

// BindMonth builds the month planner: the factory produces one blank form
// per grid day plus one edit form per existing record. Blank forms are
// pre-populated with the grid's days in order; edit forms land under their
// record's date. The result is chunked into weekly buckets; the full set is
// returned alongside for validation and saving.
func BindMonth(grid calgrid.MonthGrid, records []*schedule.Schedule, factory FormFactory, submitted url.Values) ([]binder.DayBucket[*Form], *FormSet, error) {
	fs, err := factory.NewFormSet(grid.DayCount(), records, submitted)
	if err != nil {
		return nil, nil, err
	}
	if len(fs.Blank) != grid.DayCount() {
		return nil, nil, &ConfigurationError{Days: grid.DayCount(), BlankForms: len(fs.Blank)}
	}

	i := 0
	for _, week := range grid {
		for _, day := range week {
			fs.Blank[i].SetInitialDate(day)
			i++
		}
	}

	buckets := binder.BindMonth(grid, fs.Forms(), func(f *Form) time.Time {
		d, err := f.Date()
		if err != nil {
			// Undated forms cannot be placed; the binder drops dates
			// outside the grid, a zero date falls in that bucket too.
			return time.Time{}
		}
		return d
	})
	return buckets, fs, nil
}
