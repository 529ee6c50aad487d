// Package signals defines the in-process events emitted by the schedule
// store, with typed payloads.
package signals

import (
	"context"
	"time"

	"github.com/maniartech/signals"
)

// ScheduleSavedData contains data associated with the schedule saved signal
type ScheduleSavedData struct {
	ID      int64
	Date    time.Time
	Created bool // true for a new schedule, false for an update
}

// ScheduleDeletedData contains data associated with the schedule deleted signal
type ScheduleDeletedData struct {
	ID int64
}

// Signal definitions using generics
var ScheduleSaved = signals.New[ScheduleSavedData]()
var ScheduleDeleted = signals.New[ScheduleDeletedData]()

// EmitScheduleSaved emits a signal after a schedule is created or updated
func EmitScheduleSaved(ctx context.Context, id int64, date time.Time, created bool) {
	ScheduleSaved.Emit(ctx, ScheduleSavedData{
		ID:      id,
		Date:    date,
		Created: created,
	})
}

// EmitScheduleDeleted emits a signal after a schedule is removed
func EmitScheduleDeleted(ctx context.Context, id int64) {
	ScheduleDeleted.Emit(ctx, ScheduleDeletedData{
		ID: id,
	})
}

// OnScheduleSaved registers a handler for schedule saved events
func OnScheduleSaved(handler func(ctx context.Context, data ScheduleSavedData), key ...string) {
	if len(key) > 0 {
		ScheduleSaved.AddListener(handler, key[0])
	} else {
		ScheduleSaved.AddListener(handler)
	}
}

// OnScheduleDeleted registers a handler for schedule deleted events
func OnScheduleDeleted(handler func(ctx context.Context, data ScheduleDeletedData), key ...string) {
	if len(key) > 0 {
		ScheduleDeleted.AddListener(handler, key[0])
	} else {
		ScheduleDeleted.AddListener(handler)
	}
}
