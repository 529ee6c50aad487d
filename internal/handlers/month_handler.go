package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/raspored-app/raspored/internal/binder"
	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/logging"
	"github.com/raspored-app/raspored/internal/schedule"
)

// MonthHandler renders the month view
type MonthHandler struct {
	*BaseHandler
}

// NewMonthHandler creates a new month view handler
func NewMonthHandler(baseHandler *BaseHandler) *MonthHandler {
	return &MonthHandler{
		BaseHandler: baseHandler,
	}
}

// RegisterRoutes registers the month view routes
func (h *MonthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleMonth)
	mux.HandleFunc("GET /calendar/{year}/{month}", h.HandleMonth)
}

// CalendarDay is a single cell of the month table
type CalendarDay struct {
	Date           time.Time
	DayOfMonth     int
	IsCurrentMonth bool
	IsToday        bool
	Schedules      []*schedule.Schedule
}

// MonthPageData contains data for the month view
type MonthPageData struct {
	BasePageData
	CurrentMonth  time.Time
	PreviousMonth time.Time
	NextMonth     time.Time
	WeekLabels    [7]string
	Weeks         [][]CalendarDay
}

// HandleMonth serves the month calendar page
func (h *MonthHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("month-handler")

	params, err := pathParams(r)
	if err != nil {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Malformed calendar path")
		http.NotFound(w, r)
		return
	}

	month, err := calgrid.ResolveMonth(h.Clock, params)
	if err != nil {
		var invalid *calgrid.InvalidDateError
		if errors.As(err, &invalid) {
			logger.Warn().Err(err).Msg("Invalid month requested")
			http.Error(w, GetErrorMessage(ErrCodeInvalidDate), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Msg("Failed to resolve month")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	grid := h.Calendar.MonthGrid(month.Year(), month.Month())

	records, err := h.Store.ByDateRange(r.Context(), grid.First(), grid.Last())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load schedules for month")
		http.Error(w, GetErrorMessage(ErrCodeFailedLoadSchedule), http.StatusInternalServerError)
		return
	}

	buckets := binder.BindMonth(grid, records, (*schedule.Schedule).ScheduleDate)
	today := calgrid.DateOf(h.Clock.Today())

	weeks := make([][]CalendarDay, 0, len(buckets))
	for _, bucket := range buckets {
		week := make([]CalendarDay, 0, 7)
		for _, day := range bucket.Days() {
			week = append(week, CalendarDay{
				Date:           day,
				DayOfMonth:     day.Day(),
				IsCurrentMonth: day.Month() == month.Month(),
				IsToday:        day.Equal(today),
				Schedules:      bucket.For(day),
			})
		}
		weeks = append(weeks, week)
	}

	data := MonthPageData{
		BasePageData:  h.NewBasePageData(r),
		CurrentMonth:  month,
		PreviousMonth: calgrid.PreviousMonth(month),
		NextMonth:     calgrid.NextMonth(month),
		WeekLabels:    h.Calendar.WeekLabels(),
		Weeks:         weeks,
	}

	h.RenderTemplate(w, "month.html", data)
}
