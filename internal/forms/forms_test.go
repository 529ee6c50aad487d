package forms

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/constants"
	"github.com/raspored-app/raspored/internal/schedule"
)

func date(t *testing.T, dateStr string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date '%s': %v", dateStr, err)
	}
	return tm
}

func februaryGrid(t *testing.T) calgrid.MonthGrid {
	t.Helper()
	cal, err := calgrid.New(0, constants.DefaultWeekLabels)
	require.NoError(t, err)
	return cal.MonthGrid(2024, time.February) // 2024-01-29 .. 2024-03-03, 35 days
}

// fakeSaver records Create/Update calls for save tests.
type fakeSaver struct {
	created []*schedule.Schedule
	updated []*schedule.Schedule
}

func (s *fakeSaver) Create(_ context.Context, sched *schedule.Schedule) (*schedule.Schedule, error) {
	s.created = append(s.created, sched)
	return sched, nil
}

func (s *fakeSaver) Update(_ context.Context, sched *schedule.Schedule) error {
	s.updated = append(s.updated, sched)
	return nil
}

func TestNewFormSetUnbound(t *testing.T) {
	factory := NewFactory()
	existing := []*schedule.Schedule{
		{ID: 3, Summary: "Dentist", Date: date(t, "2024-02-15"), StartTime: "09:00", EndTime: "10:00"},
	}

	fs, err := factory.NewFormSet(35, existing, nil)
	require.NoError(t, err)

	assert.False(t, fs.IsSubmitted())
	assert.Len(t, fs.Blank, 35)
	require.Len(t, fs.Bound, 1)

	edit := fs.Bound[0]
	assert.Equal(t, "edit-3", edit.FieldPrefix())
	assert.Equal(t, "Dentist", edit.Summary)
	assert.Equal(t, "2024-02-15", edit.DateStr)

	assert.Equal(t, "new-0", fs.Blank[0].FieldPrefix())
	assert.False(t, fs.Blank[0].Filled)
}

func TestNewFormSetSkipsOccurrences(t *testing.T) {
	factory := NewFactory()
	existing := []*schedule.Schedule{
		{ID: 3, Summary: "Weekly", Date: date(t, "2024-02-05"), RRule: "FREQ=WEEKLY", Occurrence: true},
		{ID: 3, Summary: "Weekly", Date: date(t, "2024-02-12"), RRule: "FREQ=WEEKLY", Occurrence: true},
	}

	fs, err := factory.NewFormSet(0, existing, nil)
	require.NoError(t, err)
	assert.Empty(t, fs.Bound, "occurrences never get edit forms")
}

func TestFormValidate(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		f := &Form{Summary: "ok", DateStr: "2024-02-15", StartTime: "09:00", EndTime: "10:30"}
		assert.NoError(t, f.Validate())
	})

	t.Run("collects every violation", func(t *testing.T) {
		long := make([]rune, schedule.MaxSummaryLength+1)
		for i := range long {
			long[i] = 'x'
		}
		f := &Form{Summary: string(long), DateStr: "not-a-date", StartTime: "25:99", RRule: "FREQ=NOPE"}

		err := f.Validate()
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "summary exceeds")
		assert.Contains(t, msg, "invalid date")
		assert.Contains(t, msg, "not a valid HH:MM")
		assert.Contains(t, msg, "recurrence rule")
	})

	t.Run("missing summary", func(t *testing.T) {
		f := &Form{DateStr: "2024-02-15"}
		assert.ErrorContains(t, f.Validate(), "summary is required")
	})
}

func TestBindMonthForms(t *testing.T) {
	grid := februaryGrid(t)
	factory := NewFactory()
	records := []*schedule.Schedule{
		{ID: 1, Summary: "Dentist", Date: date(t, "2024-02-15")},
	}

	buckets, fs, err := BindMonth(grid, records, factory, nil)
	require.NoError(t, err)
	require.Len(t, buckets, len(grid))
	require.Len(t, fs.Blank, grid.DayCount())

	// Blank forms carry the grid's days in order.
	assert.Equal(t, "2024-01-29", fs.Blank[0].DateStr)
	assert.Equal(t, "2024-03-03", fs.Blank[len(fs.Blank)-1].DateStr)

	// Every day has exactly one blank form; Feb 15 also has its edit form,
	// after the blank one.
	for wi, bucket := range buckets {
		for _, day := range bucket.Days() {
			forms := bucket.For(day)
			if day.Equal(date(t, "2024-02-15")) {
				require.Len(t, forms, 2)
				assert.True(t, forms[0].IsBlank())
				assert.Equal(t, "edit-1", forms[1].FieldPrefix())
			} else {
				require.Len(t, forms, 1, "week %d day %s", wi, day)
				assert.True(t, forms[0].IsBlank())
			}
		}
	}
}

// shortFactory returns one blank form fewer than requested, violating the
// day-count invariant.
type shortFactory struct {
	inner *Factory
}

func (f *shortFactory) NewFormSet(extra int, existing []*schedule.Schedule, submitted url.Values) (*FormSet, error) {
	return f.inner.NewFormSet(extra-1, existing, submitted)
}

func TestBindMonthFormCountMismatch(t *testing.T) {
	grid := februaryGrid(t)

	_, _, err := BindMonth(grid, nil, &shortFactory{inner: NewFactory()}, nil)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, grid.DayCount(), confErr.Days)
	assert.Equal(t, grid.DayCount()-1, confErr.BlankForms)
	assert.Contains(t, confErr.Error(), "form count mismatch")
}

func TestFormSetSubmitted(t *testing.T) {
	grid := februaryGrid(t)
	factory := NewFactory()
	records := []*schedule.Schedule{
		{ID: 1, Summary: "Dentist", Date: date(t, "2024-02-15"), StartTime: "09:00", EndTime: "10:00"},
	}

	submitted := url.Values{}
	// Fill the blank form for Feb 1 (grid day index 3: Jan 29, 30, 31, Feb 1).
	submitted.Set("new-3-summary", "Swimming")
	submitted.Set("new-3-date", "2024-02-01")
	// Edit the existing record.
	submitted.Set("edit-1-summary", "Dentist (moved)")
	submitted.Set("edit-1-date", "2024-02-16")
	submitted.Set("edit-1-start_time", "11:00")
	submitted.Set("edit-1-end_time", "12:00")

	buckets, fs, err := BindMonth(grid, records, factory, submitted)
	require.NoError(t, err)
	assert.True(t, fs.IsSubmitted())

	// The filled blank form sits on its submitted date.
	feb1 := buckets[0].For(date(t, "2024-02-01"))
	require.NotEmpty(t, feb1)
	var filled *Form
	for _, f := range feb1 {
		if f.Filled && f.IsBlank() {
			filled = f
		}
	}
	require.NotNil(t, filled)
	assert.Equal(t, "Swimming", filled.Summary)

	require.NoError(t, fs.Validate())

	saver := &fakeSaver{}
	require.NoError(t, fs.Save(context.Background(), saver))

	require.Len(t, saver.created, 1)
	assert.Equal(t, "Swimming", saver.created[0].Summary)
	assert.Equal(t, date(t, "2024-02-01"), saver.created[0].Date)

	require.Len(t, saver.updated, 1)
	assert.Equal(t, int64(1), saver.updated[0].ID)
	assert.Equal(t, "Dentist (moved)", saver.updated[0].Summary)
	assert.Equal(t, date(t, "2024-02-16"), saver.updated[0].Date)
}

func TestFormSetSaveRejectsUnsubmitted(t *testing.T) {
	factory := NewFactory()
	fs, err := factory.NewFormSet(7, nil, nil)
	require.NoError(t, err)

	assert.Error(t, fs.Save(context.Background(), &fakeSaver{}))
}

func TestFormSetSaveRejectsInvalid(t *testing.T) {
	factory := NewFactory()

	submitted := url.Values{}
	submitted.Set("new-0-summary", "Missing date")

	fs, err := factory.NewFormSet(1, nil, submitted)
	require.NoError(t, err)

	saver := &fakeSaver{}
	require.Error(t, fs.Save(context.Background(), saver))
	assert.Empty(t, saver.created)
}

func TestValidateSkipsUntouchedBlankForms(t *testing.T) {
	factory := NewFactory()

	submitted := url.Values{}
	submitted.Set("new-1-summary", "Only this one")
	submitted.Set("new-1-date", "2024-02-01")

	fs, err := factory.NewFormSet(3, nil, submitted)
	require.NoError(t, err)
	assert.NoError(t, fs.Validate(), "empty blank forms are not validated")
}
