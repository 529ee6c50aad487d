// Package binder aligns date-carrying records with calendar grids: records
// are grouped per day and the per-day groups are re-chunked into per-week
// buckets matching the grid's week order.
package binder

import (
	"time"

	"github.com/raspored-app/raspored/internal/calgrid"
)

// dayKey is the map key for a calendar day. Formatting the date avoids
// timezone and monotonic-clock drift between grid days and record dates.
const dayKey = "2006-01-02"

// DayBucket maps each day of one week to the ordered records associated
// with it. Days without records map to an empty sequence.
type DayBucket[T any] struct {
	days  calgrid.Week
	items map[string][]T
}

// Days returns the bucket's days in grid order.
func (b DayBucket[T]) Days() calgrid.Week {
	return b.days
}

// For returns the records for the given day, in retrieval order.
func (b DayBucket[T]) For(day time.Time) []T {
	return b.items[day.Format(dayKey)]
}

// Len returns the total number of records across the bucket's days.
func (b DayBucket[T]) Len() int {
	n := 0
	for _, items := range b.items {
		n += len(items)
	}
	return n
}

// BindMonth buckets records by day across the whole grid span and chunks the
// result into one DayBucket per grid week. Records sharing a date keep their
// input order; records dated outside the grid are ignored.
func BindMonth[T any](grid calgrid.MonthGrid, records []T, dateOf func(T) time.Time) []DayBucket[T] {
	byDay := bucketByDay(grid.First(), grid.Last(), records, dateOf)

	buckets := make([]DayBucket[T], 0, len(grid))
	for _, week := range grid {
		bucket := DayBucket[T]{days: week, items: make(map[string][]T, len(week))}
		for _, day := range week {
			key := day.Format(dayKey)
			bucket.items[key] = byDay[key]
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BindWeek buckets records by day for a single week.
func BindWeek[T any](week calgrid.Week, records []T, dateOf func(T) time.Time) DayBucket[T] {
	byDay := bucketByDay(week.First(), week.Last(), records, dateOf)

	bucket := DayBucket[T]{days: week, items: make(map[string][]T, len(week))}
	for _, day := range week {
		key := day.Format(dayKey)
		bucket.items[key] = byDay[key]
	}
	return bucket
}

func bucketByDay[T any](first, last time.Time, records []T, dateOf func(T) time.Time) map[string][]T {
	byDay := make(map[string][]T)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		byDay[day.Format(dayKey)] = nil
	}
	for _, record := range records {
		key := calgrid.DateOf(dateOf(record)).Format(dayKey)
		if _, ok := byDay[key]; !ok {
			continue
		}
		byDay[key] = append(byDay[key], record)
	}
	return byDay
}
