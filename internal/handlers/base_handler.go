package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/config"
	"github.com/raspored-app/raspored/internal/logging"
	"github.com/raspored-app/raspored/internal/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

// ScheduleSource is the record store the views read from and the planner
// writes through.
type ScheduleSource interface {
	ByDateRange(ctx context.Context, start, end time.Time) ([]*schedule.Schedule, error)
	Create(ctx context.Context, sched *schedule.Schedule) (*schedule.Schedule, error)
	Update(ctx context.Context, sched *schedule.Schedule) error
}

// BaseHandler contains common handler functionality
type BaseHandler struct {
	tmpl     *template.Template
	Calendar calgrid.Calendar
	Clock    calgrid.Clock
	Store    ScheduleSource
	Config   *config.Config
	logger   zerolog.Logger
}

// NewBaseHandler creates a common base handler with shared components
func NewBaseHandler(cfg *config.Config, store ScheduleSource, clock calgrid.Clock) (*BaseHandler, error) {
	logger := logging.GetLogger("base-handler")

	cal, err := cfg.Calendar.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"fmtDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"fmtMonth": func(t time.Time) string {
			return t.Format("January 2006")
		},
	}

	logger.Debug().Msg("Parsing templates")
	// Parse only layout.html initially; page templates are parsed into a
	// clone on render.
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse templates")
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &BaseHandler{
		tmpl:     tmpl,
		Calendar: cal,
		Clock:    clock,
		Store:    store,
		Config:   cfg,
		logger:   logger,
	}, nil
}

// RenderTemplate renders a page template inside the layout
func (h *BaseHandler) RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.logger.Debug().Str("template_name", name).Msg("Executing template")

	tmpl, err := h.tmpl.Clone()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clone template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	_, err = tmpl.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to parse page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// BasePageData contains common data for all pages
type BasePageData struct {
	CurrentYear    int
	CurrentPath    string
	ErrorMessage   string
	SuccessMessage string
}

// NewBasePageData creates a new BasePageData with common fields populated
func (h *BaseHandler) NewBasePageData(r *http.Request) BasePageData {
	errorMessage, successMessage := h.processMessages(r)
	return BasePageData{
		CurrentYear:    h.Clock.Today().Year(),
		CurrentPath:    r.URL.Path,
		ErrorMessage:   errorMessage,
		SuccessMessage: successMessage,
	}
}

// processMessages extracts and translates error/success codes from query
// parameters.
func (h *BaseHandler) processMessages(r *http.Request) (errorMessage, successMessage string) {
	errorCode := r.URL.Query().Get("error")
	successCode := r.URL.Query().Get("success")

	if errorCode != "" {
		errorMessage = GetErrorMessage(errorCode)
		h.logger.Warn().Str("error_code", errorCode).Str("error_message", errorMessage).Msg("Processing error message")
	}

	if successCode != "" {
		successMessage = GetSuccessMessage(successCode)
		h.logger.Info().Str("success_code", successCode).Str("success_message", successMessage).Msg("Processing success message")
	}
	return errorMessage, successMessage
}
