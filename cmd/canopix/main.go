package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/canopix-alert-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/canopix-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/canopix-alert-service/internal/config"
	"github.com/couchcryptid/canopix-alert-service/internal/observability"
	"github.com/couchcryptid/canopix-alert-service/internal/pipeline"
	"github.com/couchcryptid/canopix-alert-service/internal/source"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	src, err := source.New(cfg, clock, logger)
	if err != nil {
		logger.Error("failed to create alert source", "error", err)
		os.Exit(1)
	}
	orch := pipeline.NewOrchestrator(src, logger, metrics)

	// Snapshot export is feature-flagged via KAFKA_ENABLED.
	var sink pipeline.Sink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("snapshot export enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot export disabled")
	}

	svc := pipeline.New(orch, sink, clock, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.DayRange, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start background refresher; without it snapshots load on request.
	if cfg.RefreshInterval > 0 {
		go func() {
			if err := svc.Run(ctx, cfg.RefreshInterval, cfg.DayRange); err != nil {
				logger.Error("refresher error", "error", err)
			}
		}()
	} else {
		logger.Info("background refresh disabled")
	}

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

	logger.Info("shutdown complete")
}
