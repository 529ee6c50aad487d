package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/constants"
	"github.com/raspored-app/raspored/internal/logging"
)

// ICSHandler exports a month of schedules as an iCalendar feed
type ICSHandler struct {
	*BaseHandler
}

// NewICSHandler creates a new iCalendar export handler
func NewICSHandler(baseHandler *BaseHandler) *ICSHandler {
	return &ICSHandler{
		BaseHandler: baseHandler,
	}
}

// RegisterRoutes registers the iCalendar export route
func (h *ICSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /calendar/{year}/{month}/export.ics", h.HandleExport)
}

// HandleExport serves the month's schedules as all-day VEVENTs.
func (h *ICSHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("ics-handler")

	params, err := pathParams(r)
	if err != nil {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Malformed export path")
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

	// Export the same span the month view shows, including the leading and
	// trailing days of the neighbouring months.
	grid := h.Calendar.MonthGrid(month.Year(), month.Month())

	records, err := h.Store.ByDateRange(r.Context(), grid.First(), grid.Last())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load schedules for export")
		http.Error(w, GetErrorMessage(ErrCodeFailedLoadSchedule), http.StatusInternalServerError)
		return
	}

	cal := ics.NewCalendar()
	cal.SetProductId(constants.ICSProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("%s %s", h.Config.Export.CalendarName, month.Format("January 2006")))

	now := time.Now().UTC()
	for _, sched := range records {
		day := sched.ScheduleDate()
		event := cal.AddEvent(fmt.Sprintf("schedule-%d-%s@%s", sched.ID, day.Format("20060102"), constants.AppIdentifier))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(sched.Summary)
		if sched.Description != "" {
			event.SetDescription(sched.Description)
		}
	}

	filename := fmt.Sprintf("%s-%s.ics", h.Config.Export.CalendarName, month.Format("2006-01"))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		logger.Error().Err(err).Msg("Failed to write calendar export")
	}

	logger.Debug().Int("events", len(records)).Time("month", month).Msg("Exported calendar")
}
