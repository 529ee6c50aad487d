package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/raspored-app/raspored/internal/calgrid"
	"github.com/raspored-app/raspored/internal/config"
	"github.com/raspored-app/raspored/internal/database"
	"github.com/raspored-app/raspored/internal/forms"
	"github.com/raspored-app/raspored/internal/handlers"
	"github.com/raspored-app/raspored/internal/logging"
	"github.com/raspored-app/raspored/internal/schedule"
	appSignals "github.com/raspored-app/raspored/internal/signals"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Determine if we're in development mode
	isDev := os.Getenv("ENV") != "production"

	// Initialize logging
	logging.Initialize(isDev)

	logger := logging.GetLogger("main")

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting Raspored")

	// Create context that's canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
		cancel()
	}()

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context) error {
	logger := logging.GetLogger("main")

	// Get config file path from environment or use default
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "configs/raspored.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	// Set log level from configuration
	logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Info().Str("log_level", cfg.Service.LogLevel).Msg("Log level set")

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0755); err != nil {
		logger.Error().Err(err).Str("path", filepath.Dir(cfg.Service.StateFile)).Msg("Failed to create data directory")
		return err
	}

	// Initialize database
	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database: %w", err)
		logger.Error().Err(wrappedErr).Str("db_path", cfg.Service.StateFile).Msg("Database initialization failed")
		return wrappedErr
	}
	defer db.Close()

	if err := db.MigrateDatabase(); err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database schema: %w", err)
		logger.Error().Err(wrappedErr).Msg("Database schema initialization failed")
		return wrappedErr
	}

	// Initialize schedule store
	store, err := schedule.NewStore(db)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize schedule store: %w", err)
		logger.Error().Err(wrappedErr).Msg("Schedule store initialization failed")
		return wrappedErr
	}

	// Initialize base handler first, as other handlers depend on it
	baseHandler, err := handlers.NewBaseHandler(cfg, store, calgrid.SystemClock{})
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize base handler: %w", err)
		logger.Error().Err(wrappedErr).Msg("Base handler initialization failed")
		return wrappedErr
	}

	monthHandler := handlers.NewMonthHandler(baseHandler)
	weekHandler := handlers.NewWeekHandler(baseHandler)
	plannerHandler := handlers.NewPlannerHandler(baseHandler, forms.NewFactory())
	icsHandler := handlers.NewICSHandler(baseHandler)

	// Register routes
	mux := http.NewServeMux()
	monthHandler.RegisterRoutes(mux)
	weekHandler.RegisterRoutes(mux)
	plannerHandler.RegisterRoutes(mux)
	icsHandler.RegisterRoutes(mux)

	// Log schedule lifecycle events
	appSignals.OnScheduleSaved(func(_ context.Context, data appSignals.ScheduleSavedData) {
		signalLogger := logging.GetLogger("signal-schedule-saved")
		signalLogger.Info().
			Int64("schedule_id", data.ID).
			Time("date", data.Date).
			Bool("created", data.Created).
			Msg("Schedule saved")
	}, "main-schedule-saved-handler")

	appSignals.OnScheduleDeleted(func(_ context.Context, data appSignals.ScheduleDeletedData) {
		signalLogger := logging.GetLogger("signal-schedule-deleted")
		signalLogger.Info().Int64("schedule_id", data.ID).Msg("Schedule deleted")
	}, "main-schedule-deleted-handler")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Service.Port),
		Handler: mux,
	}

	go func() {
		logger.Info().Int("port", cfg.Service.Port).Msg("Starting web server")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
