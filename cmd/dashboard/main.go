package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lyndonwx/dashboard-service/internal/adapter/cocorahs"
	kafkaadapter "github.com/lyndonwx/dashboard-service/internal/adapter/kafka"
	"github.com/lyndonwx/dashboard-service/internal/adapter/openmeteo"
	"github.com/lyndonwx/dashboard-service/internal/config"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
	"github.com/lyndonwx/dashboard-service/internal/refresher"
	"github.com/lyndonwx/dashboard-service/internal/server"
	"github.com/lyndonwx/dashboard-service/internal/storage"
)

func main() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	panels, err := loadPanels(cfg)
	if err != nil {
		logger.Error("failed to load panels", "error", err)
		os.Exit(1)
	}

	client := openmeteo.NewClient(cfg.OpenMeteoTimeout, metrics, logger)
	forecaster := openmeteo.NewCachedForecaster(client, cfg.OpenMeteoCacheSize, metrics)
	ref := refresher.New(forecaster, cfg, logger, metrics)

	// CoCoRaHS relay is feature-flagged via COCORAHS_USERNAME / COCORAHS_PASSWORD.
	var submitter domain.ReportSubmitter
	if cfg.CoCoRaHSEnabled {
		submitter = cocorahs.NewClient(cfg.CoCoRaHSUsername, cfg.CoCoRaHSPassword, cfg.CoCoRaHSStation, cfg.CoCoRaHSTimeout, logger)
		metrics.RelayEnabled.Set(1)
		logger.Info("cocorahs relay enabled", "station", cfg.CoCoRaHSStation)
	} else {
		logger.Info("cocorahs relay disabled, reports are recorded locally only")
	}

	// Report event publishing is feature-flagged via KAFKA_BROKERS.
	var publisher server.ReportPublisher
	var writer *kafkaadapter.Writer
	if cfg.ReportsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	store, err := storage.NewSQLite(cfg.ReportsDBPath)
	if err != nil {
		logger.Error("failed to open report log", "error", err, "path", cfg.ReportsDBPath)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, server.Deps{
		Frames:    ref,
		Store:     store,
		Submitter: submitter,
		Publisher: publisher,
		Panels:    panels,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start forecast refresher.
	go func() {
		if err := ref.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("report log close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// loadPanels returns the built-in panel set, or the PANELS_FILE overlay when
// one is configured.
func loadPanels(cfg *config.Config) ([]domain.ResourceLink, error) {
	if cfg.PanelsFile == "" {
		return domain.DefaultPanels(), nil
	}
	data, err := os.ReadFile(cfg.PanelsFile)
	if err != nil {
		return nil, err
	}
	return domain.ParsePanels(data)
}
