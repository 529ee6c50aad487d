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

// WeekHandler renders the week view
type WeekHandler struct {
	*BaseHandler
}

// NewWeekHandler creates a new week view handler
func NewWeekHandler(baseHandler *BaseHandler) *WeekHandler {
	return &WeekHandler{
		BaseHandler: baseHandler,
	}
}

// RegisterRoutes registers the week view routes
func (h *WeekHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /week", h.HandleWeek)
	mux.HandleFunc("GET /week/{year}/{month}/{day}", h.HandleWeek)
}

// WeekDay is a single column of the week table
type WeekDay struct {
	Date      time.Time
	Label     string
	IsToday   bool
	Schedules []*schedule.Schedule
}

// WeekPageData contains data for the week view
type WeekPageData struct {
	BasePageData
	CurrentDay   time.Time
	PreviousWeek time.Time
	NextWeek     time.Time
	Days         []WeekDay
}

// HandleWeek serves the week calendar page
func (h *WeekHandler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("week-handler")

	params, err := pathParams(r)
	if err != nil {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Malformed week path")
		http.NotFound(w, r)
		return
	}

	day, err := calgrid.ResolveDay(h.Clock, params)
	if err != nil {
		var invalid *calgrid.InvalidDateError
		if errors.As(err, &invalid) {
			logger.Warn().Err(err).Msg("Invalid day requested")
			http.Error(w, GetErrorMessage(ErrCodeInvalidDate), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Msg("Failed to resolve day")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	week, err := h.Calendar.WeekContaining(day)
	if err != nil {
		logger.Error().Err(err).Time("day", day).Msg("Failed to locate week")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	records, err := h.Store.ByDateRange(r.Context(), week.First(), week.Last())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load schedules for week")
		http.Error(w, GetErrorMessage(ErrCodeFailedLoadSchedule), http.StatusInternalServerError)
		return
	}

	bucket := binder.BindWeek(week, records, (*schedule.Schedule).ScheduleDate)
	labels := h.Calendar.WeekLabels()
	today := calgrid.DateOf(h.Clock.Today())

	days := make([]WeekDay, 0, 7)
	for i, d := range bucket.Days() {
		days = append(days, WeekDay{
			Date:      d,
			Label:     labels[i],
			IsToday:   d.Equal(today),
			Schedules: bucket.For(d),
		})
	}

	data := WeekPageData{
		BasePageData: h.NewBasePageData(r),
		CurrentDay:   day,
		PreviousWeek: calgrid.PreviousWeek(week.First()),
		NextWeek:     calgrid.NextWeek(week.First()),
		Days:         days,
	}

	h.RenderTemplate(w, "week.html", data)
}
