package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/teambition/rrule-go"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/database"
	"github.com/raspored-app/raspored/internal/logging"
	"github.com/raspored-app/raspored/internal/signals"
)

const dateFormat = "2006-01-02"

// maxOccurrencesPerSchedule caps recurrence expansion inside one range query.
// A month grid spans at most 42 days, so the cap is never hit by a sane rule.
const maxOccurrencesPerSchedule = 100

// Store handles schedule storage in SQLite
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore creates a new schedule store
func NewStore(db *database.DB) (*Store, error) {
	logger := logging.GetLogger("schedule-store")
	return &Store{db: db.Conn(), logger: logger}, nil
}

// Create inserts a new schedule and returns it with ID and CreatedAt set
func (s *Store) Create(ctx context.Context, sched *Schedule) (*Schedule, error) {
	if sched.Summary == "" {
		return nil, fmt.Errorf("schedule summary is required")
	}
	if len([]rune(sched.Summary)) > MaxSummaryLength {
		return nil, fmt.Errorf("schedule summary exceeds %d characters", MaxSummaryLength)
	}

	startTime := sched.StartTime
	if startTime == "" {
		startTime = DefaultTime
	}
	endTime := sched.EndTime
	if endTime == "" {
		endTime = DefaultTime
	}

	s.logger.Debug().Str("summary", sched.Summary).Str("date", sched.Date.Format(dateFormat)).Msg("Creating schedule")
	result, err := s.db.ExecContext(ctx, `
INSERT INTO schedules (summary, description, start_time, end_time, schedule_date, rrule)
VALUES (?, ?, ?, ?, ?, ?)
`, sched.Summary, sched.Description, startTime, endTime, sched.Date.Format(dateFormat), sched.RRule)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create schedule")
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule id: %w", err)
	}

	created, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	signals.EmitScheduleSaved(ctx, id, created.Date, true)
	s.logger.Info().Int64("id", id).Str("date", created.Date.Format(dateFormat)).Msg("Schedule created")
	return created, nil
}

// Update rewrites an existing schedule
func (s *Store) Update(ctx context.Context, sched *Schedule) error {
	if sched.ID == 0 {
		return fmt.Errorf("schedule id is required for update")
	}
	if sched.Occurrence {
		return fmt.Errorf("cannot update a recurrence occurrence directly")
	}
	if sched.Summary == "" {
		return fmt.Errorf("schedule summary is required")
	}

	s.logger.Debug().Int64("id", sched.ID).Msg("Updating schedule")
	result, err := s.db.ExecContext(ctx, `
UPDATE schedules
SET summary = ?, description = ?, start_time = ?, end_time = ?, schedule_date = ?, rrule = ?
WHERE id = ?
`, sched.Summary, sched.Description, sched.StartTime, sched.EndTime, sched.Date.Format(dateFormat), sched.RRule, sched.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("id", sched.ID).Msg("Failed to update schedule")
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("schedule %d not found", sched.ID)
	}

	signals.EmitScheduleSaved(ctx, sched.ID, sched.Date, false)
	s.logger.Info().Int64("id", sched.ID).Msg("Schedule updated")
	return nil
}

// GetByID retrieves a schedule by its ID. Returns nil when no row exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*Schedule, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, summary, description, start_time, end_time, schedule_date, rrule, created_at
FROM schedules
WHERE id = ?
`, id)

	sched, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve schedule %d: %w", id, err)
	}
	return sched, nil
}

// Delete removes a schedule
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("schedule %d not found", id)
	}

	signals.EmitScheduleDeleted(ctx, id)
	s.logger.Info().Int64("id", id).Msg("Schedule deleted")
	return nil
}

// ByDateRange returns all schedules falling inside [start, end], both
// inclusive, ordered by date then id. Recurring schedules are expanded into
// read-only occurrences inside the range; the issued query is the single
// read of the call.
func (s *Store) ByDateRange(ctx context.Context, start, end time.Time) ([]*Schedule, error) {
	start = calgrid.DateOf(start)
	end = calgrid.DateOf(end)
	if end.Before(start) {
		return nil, fmt.Errorf("invalid date range: %s after %s", start.Format(dateFormat), end.Format(dateFormat))
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, summary, description, start_time, end_time, schedule_date, rrule, created_at
FROM schedules
WHERE (rrule = '' AND schedule_date BETWEEN ? AND ?)
   OR (rrule <> '' AND schedule_date <= ?)
ORDER BY schedule_date, id
`, start.Format(dateFormat), end.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to query schedules")
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var result []*Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		if !sched.IsRecurring() {
			result = append(result, sched)
			continue
		}
		result = append(result, s.expand(sched, start, end)...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// expand materializes the occurrences of a recurring schedule within
// [start, end]. An unparseable rule degrades to the base entry when its own
// date falls inside the range.
func (s *Store) expand(sched *Schedule, start, end time.Time) []*Schedule {
	r, err := rrule.StrToRRule(sched.RRule)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", sched.ID).Str("rrule", sched.RRule).Msg("Failed to parse recurrence rule")
		if !sched.Date.Before(start) && !sched.Date.After(end) {
			return []*Schedule{sched}
		}
		return nil
	}
	r.DTStart(sched.Date)

	var set rrule.Set
	set.RRule(r)

	occTimes := set.Between(start, end, true)
	if len(occTimes) > maxOccurrencesPerSchedule {
		s.logger.Warn().Int64("id", sched.ID).Int("cap", maxOccurrencesPerSchedule).Msg("Recurrence expansion truncated")
		occTimes = occTimes[:maxOccurrencesPerSchedule]
	}

	occurrences := make([]*Schedule, 0, len(occTimes))
	for _, occ := range occTimes {
		instance := *sched
		instance.Date = calgrid.DateOf(occ)
		instance.Occurrence = true
		occurrences = append(occurrences, &instance)
	}
	return occurrences
}

func scanSchedule(scan func(dest ...any) error) (*Schedule, error) {
	var sched Schedule
	var dateStr string
	if err := scan(&sched.ID, &sched.Summary, &sched.Description, &sched.StartTime,
		&sched.EndTime, &dateStr, &sched.RRule, &sched.CreatedAt); err != nil {
		return nil, err
	}

	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule date %q: %w", dateStr, err)
	}
	sched.Date = date
	return &sched, nil
}
