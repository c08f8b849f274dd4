package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/callwatch/callwatch/internal/adapters/reporter/direct"
	"github.com/callwatch/callwatch/internal/adapters/reporter/logging"
	"github.com/callwatch/callwatch/internal/config"
	"github.com/callwatch/callwatch/internal/core/ports"
	"github.com/callwatch/callwatch/internal/metrics"
	"github.com/callwatch/callwatch/internal/pipeline"
	"github.com/callwatch/callwatch/internal/report"
	"github.com/callwatch/callwatch/internal/server"
	"github.com/callwatch/callwatch/internal/storage/sqlite"
	"github.com/callwatch/callwatch/internal/telemetry"
	"github.com/callwatch/callwatch/internal/transport"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize OpenTelemetry
	shutdown, err := telemetry.InitTracer("callwatch", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	configPath := os.Getenv("CALLWATCH_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var store ports.ResultStore
	var reporter ports.Reporter
	if cfg.Storage.SQLite.Disabled() {
		logger.Info("result store disabled, call results are logged only")
		reporter = logging.New(logger)
	} else {
		if dir := filepath.Dir(cfg.Storage.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create storage directory: %v", err)
			}
		}
		sqlStore, err := sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open result store: %v", err)
		}
		defer sqlStore.Close()
		store = sqlStore

		reporter, err = direct.New(sqlStore, logger)
		if err != nil {
			log.Fatalf("Failed to create reporter: %v", err)
		}
	}

	classifyCfg := cfg.Reporter.ClassifyConfig()
	builder := report.NewBuilder(cfg.Local.Identity(), classifyCfg, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	spanStart, spanEnd := telemetry.SpanPlugins()
	runner := pipeline.NewRunner(logger,
		spanStart,
		report.NewSuccessReporter(builder, reporter, logger),
		report.NewErrorReporter(builder, reporter, logger),
		metrics.New(registry, classifyCfg),
		spanEnd,
	)

	client := transport.NewClient(runner, transport.WithLogger(logger))
	client.Timeout = 30 * time.Second

	srv := server.New(cfg.Server.Port, store, client, registry, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("callwatch started",
		slog.Int("port", cfg.Server.Port),
		slog.String("namespace", cfg.Local.Namespace),
		slog.String("service", cfg.Local.Service),
		slog.String("storage", cfg.Storage.SQLite.Path),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", slog.String("error", err.Error()))
	}
	logger.Info("callwatch stopped")
}
