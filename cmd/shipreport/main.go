package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"shipreport/internal/app"
	"shipreport/internal/config"
	"shipreport/internal/infrastructure"
	"shipreport/pkg/contracts"
)

// shutdownTimeout bounds the final telemetry flush
const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create output directories: %w", err)
	}

	if paths.LogFile != "" {
		cfg.Logging.FilePath = paths.LogFile
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger.DebugContext(ctx, "Starting shipreport", slog.String("version", contracts.GetVersionString()))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, infrastructure.TelemetryOptions{
		ServiceName: cfg.Telemetry.ServiceName,
		MetricsFile: paths.MetricsFile,
		TraceFile:   paths.TraceFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry was not flushed")
		}
	}()

	pipeline, err := app.NewPipeline(cfg, paths, logger, telemetry)
	if err != nil {
		return err
	}

	if _, err := pipeline.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("CSV file '%s' has been created.\n", cfg.Report.ShipmentsPath)
	return nil
}
