package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/raspored-app/raspored/internal/binder"
	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/forms"
	"github.com/raspored-app/raspored/internal/logging"
)

// PlannerHandler renders the month planner and processes its submissions
type PlannerHandler struct {
	*BaseHandler
	factory forms.FormFactory
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(baseHandler *BaseHandler, factory forms.FormFactory) *PlannerHandler {
	return &PlannerHandler{
		BaseHandler: baseHandler,
		factory:     factory,
	}
}

// RegisterRoutes registers the planner routes
func (h *PlannerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /planner", h.HandlePlanner)
	mux.HandleFunc("GET /planner/{year}/{month}", h.HandlePlanner)
	mux.HandleFunc("POST /planner/{year}/{month}", h.HandleSubmit)
}

// PlannerDay is a single cell of the planner table
type PlannerDay struct {
	Date           time.Time
	DayOfMonth     int
	IsCurrentMonth bool
	Forms          []*forms.Form
}

// PlannerPageData contains data for the planner view
type PlannerPageData struct {
	BasePageData
	CurrentMonth  time.Time
	PreviousMonth time.Time
	NextMonth     time.Time
	WeekLabels    [7]string
	Weeks         [][]PlannerDay
}

// HandlePlanner serves the editable month planner page
func (h *PlannerHandler) HandlePlanner(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("planner-handler")

	month, ok := h.resolveMonth(w, r, logger)
	if !ok {
		return
	}

	buckets, _, err := h.bindForms(r, month, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to bind planner forms")
		http.Error(w, GetErrorMessage(ErrCodeFailedLoadSchedule), http.StatusInternalServerError)
		return
	}

	h.renderPlanner(w, r, month, buckets)
}

// HandleSubmit processes a planner submission and redirects back to the
// planner page.
func (h *PlannerHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("planner-handler")

	month, ok := h.resolveMonth(w, r, logger)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse planner submission")
		h.redirectWithError(w, r, month, ErrCodeInvalidFormData)
		return
	}

	_, fs, err := h.bindForms(r, month, r.PostForm)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to bind planner forms")
		http.Error(w, GetErrorMessage(ErrCodeFailedLoadSchedule), http.StatusInternalServerError)
		return
	}

	if err := fs.Save(r.Context(), h.Store); err != nil {
		if errors.Is(err, forms.ErrInvalidForms) {
			logger.Warn().Err(err).Msg("Planner submission failed validation")
			h.redirectWithError(w, r, month, ErrCodeInvalidFormData)
			return
		}
		logger.Error().Err(err).Msg("Failed to save planner submission")
		h.redirectWithError(w, r, month, ErrCodeFailedSaveSchedule)
		return
	}

	logger.Info().Time("month", month).Msg("Planner submission saved")
	http.Redirect(w, r, fmt.Sprintf("%s?success=%s", h.plannerPath(month), SuccessCodeSchedulesSaved), http.StatusSeeOther)
}

func (h *PlannerHandler) resolveMonth(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (time.Time, bool) {
	params, err := pathParams(r)
	if err != nil {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Malformed planner path")
		http.NotFound(w, r)
		return time.Time{}, false
	}

	month, err := calgrid.ResolveMonth(h.Clock, params)
	if err != nil {
		var invalid *calgrid.InvalidDateError
		if errors.As(err, &invalid) {
			logger.Warn().Err(err).Msg("Invalid month requested")
			http.Error(w, GetErrorMessage(ErrCodeInvalidDate), http.StatusBadRequest)
			return time.Time{}, false
		}
		logger.Error().Err(err).Msg("Failed to resolve month")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return time.Time{}, false
	}
	return month, true
}

func (h *PlannerHandler) bindForms(r *http.Request, month time.Time, submitted url.Values) ([]binder.DayBucket[*forms.Form], *forms.FormSet, error) {
	grid := h.Calendar.MonthGrid(month.Year(), month.Month())

	records, err := h.Store.ByDateRange(r.Context(), grid.First(), grid.Last())
	if err != nil {
		return nil, nil, fmt.Errorf("loading schedules: %w", err)
	}

	return forms.BindMonth(grid, records, h.factory, submitted)
}

func (h *PlannerHandler) renderPlanner(w http.ResponseWriter, r *http.Request, month time.Time, buckets []binder.DayBucket[*forms.Form]) {
	weeks := make([][]PlannerDay, 0, len(buckets))
	for _, bucket := range buckets {
		week := make([]PlannerDay, 0, 7)
		for _, day := range bucket.Days() {
			week = append(week, PlannerDay{
				Date:           day,
				DayOfMonth:     day.Day(),
				IsCurrentMonth: day.Month() == month.Month(),
				Forms:          bucket.For(day),
			})
		}
		weeks = append(weeks, week)
	}

	data := PlannerPageData{
		BasePageData:  h.NewBasePageData(r),
		CurrentMonth:  month,
		PreviousMonth: calgrid.PreviousMonth(month),
		NextMonth:     calgrid.NextMonth(month),
		WeekLabels:    h.Calendar.WeekLabels(),
		Weeks:         weeks,
	}

	h.RenderTemplate(w, "planner.html", data)
}

func (h *PlannerHandler) plannerPath(month time.Time) string {
	return fmt.Sprintf("/planner/%d/%d", month.Year(), int(month.Month()))
}

func (h *PlannerHandler) redirectWithError(w http.ResponseWriter, r *http.Request, month time.Time, code string) {
	http.Redirect(w, r, fmt.Sprintf("%s?error=%s", h.plannerPath(month), code), http.StatusSeeOther)
}
