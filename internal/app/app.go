package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"shipreport/internal/config"
	"shipreport/internal/dataprocessing"
	"shipreport/internal/errors"
	"shipreport/internal/exporter"
	"shipreport/internal/files"
	"shipreport/internal/infrastructure"
	"shipreport/internal/validation"
	"shipreport/pkg/contracts/domain"
)

// Pipeline wires the loader, transformer, summarizer and exporters for one
// report run
type Pipeline struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry

	files       *files.Manager
	validator   *validation.FileValidator
	loader      *dataprocessing.Loader
	transformer *dataprocessing.Transformer
	summarizer  *dataprocessing.Summarizer
	shipments   *exporter.ShipmentReport
	stats       *exporter.StatsReport
	workbook    *exporter.WorkbookExporter // nil when no workbook path is configured
}

// RunResult describes a completed run
type RunResult struct {
	TraceID       string
	Records       int
	Rows          int
	Skipped       int
	Stats         domain.SummaryStats
	ShipmentsFile string
	StatsFile     string
	WorkbookFile  string
	Duration      time.Duration
}

// NewPipeline builds a pipeline from resolved configuration. A nil
// telemetry gets a disabled instance so instruments are always usable.
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger, telemetry *infrastructure.Telemetry) (*Pipeline, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.NewConfigError("invalid display time zone", err)
	}

	if telemetry == nil {
		telemetry, err = infrastructure.InitializeTelemetry(context.Background(), infrastructure.TelemetryOptions{}, logger)
		if err != nil {
			return nil, err
		}
	}

	manager := files.NewManager(paths.BaseDir, logger)
	writer := exporter.NewCSVWriter(manager, logger)

	p := &Pipeline{
		Config:     cfg,
		Paths:      paths,
		Logger:     logger,
		Telemetry:  telemetry,
		files:      manager,
		validator:  validation.NewFileValidator(logger),
		loader:     dataprocessing.NewLoader(logger),
		summarizer: dataprocessing.NewSummarizer(logger),
		shipments:  exporter.NewShipmentReport(writer, logger),
		stats:      exporter.NewStatsReport(writer, logger),
	}

	p.transformer = dataprocessing.NewTransformer(logger, dataprocessing.TransformerConfig{
		Location: loc,
		Policy:   cfg.Processing.ErrorPolicy,
		OnSkip: func(int, error) {
			telemetry.Metrics.RecordsSkipped.Add(context.Background(), 1)
		},
	})

	if paths.WorkbookXLSX != "" {
		p.workbook = exporter.NewWorkbookExporter(manager, logger)
	}

	return p, nil
}

// Run loads, transforms and reports. Nothing is written unless every
// record was transformed (or skipped under the skip policy). The statistics
// file is only written after the shipments file, and reports already
// written are removed when a later one fails.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	metrics := p.Telemetry.Metrics

	result := &RunResult{
		TraceID:       infrastructure.GetTraceID(ctx),
		ShipmentsFile: p.Paths.ShipmentsCSV,
		StatsFile:     p.Paths.StatsCSV,
		WorkbookFile:  p.Paths.WorkbookXLSX,
	}

	p.Logger.InfoContext(ctx, "Starting report run",
		slog.String("input", p.Paths.InputFile),
		slog.String("error_policy", string(p.Config.Processing.ErrorPolicy)))

	err := p.stage(ctx, "validate", func(ctx context.Context) error {
		if err := p.validator.ValidateInputFile(p.Paths.InputFile); err != nil {
			return err
		}
		return p.validator.ValidateOutputFiles(p.Paths.ShipmentsCSV, p.Paths.StatsCSV, p.Paths.WorkbookXLSX)
	})
	if err != nil {
		return nil, err
	}

	var records []domain.ShipmentRecord
	err = p.stage(ctx, "load", func(ctx context.Context) error {
		var err error
		records, err = p.loader.Load(ctx, p.Paths.InputFile)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Records = len(records)
	metrics.RecordsLoaded.Add(ctx, int64(len(records)))

	var rows []domain.DerivedRow
	err = p.stage(ctx, "transform", func(ctx context.Context) error {
		var err error
		rows, err = p.transformer.Transform(ctx, records)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Rows = len(rows)
	result.Skipped = len(records) - len(rows)

	for _, row := range rows {
		attrs := metric.WithAttributes(attribute.String("payment_type", string(row.PaymentType)))
		metrics.DaysTaken.Record(ctx, int64(row.DaysTaken), attrs)
		metrics.DeliveryAttempts.Record(ctx, int64(row.DeliveryAttempts), attrs)
	}

	err = p.stage(ctx, "summarize", func(ctx context.Context) error {
		var err error
		result.Stats, err = p.summarizer.Summarize(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "report", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var written []string
		err := p.writeReports(ctx, rows, result.Stats, &written)
		if err != nil {
			p.rollback(ctx, written)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	p.Logger.InfoContext(ctx, "Report run completed",
		slog.Int("records", result.Records),
		slog.Int("rows", result.Rows),
		slog.Int("skipped", result.Skipped),
		slog.String("shipments_file", result.ShipmentsFile),
		slog.String("stats_file", result.StatsFile),
		slog.Duration("elapsed", result.Duration))

	return result, nil
}

// writeReports writes the shipments file, then the statistics file, then the
// optional workbook. Each completed path is appended to written.
func (p *Pipeline) writeReports(ctx context.Context, rows []domain.DerivedRow, stats domain.SummaryStats, written *[]string) error {
	if err := p.shipments.Write(p.Paths.ShipmentsCSV, rows); err != nil {
		return err
	}
	*written = append(*written, p.Paths.ShipmentsCSV)
	p.Telemetry.Metrics.RowsWritten.Add(ctx, int64(len(rows)))

	if err := p.stats.Write(p.Paths.StatsCSV, stats); err != nil {
		return err
	}
	*written = append(*written, p.Paths.StatsCSV)

	if p.workbook == nil {
		return nil
	}
	return p.workbook.Write(p.Paths.WorkbookXLSX, rows, stats)
}

// rollback removes reports written before a later report failed, so a
// failed run does not leave a partial set behind
func (p *Pipeline) rollback(ctx context.Context, written []string) {
	for _, path := range written {
		if err := p.files.DeleteFile(path); err != nil {
			infrastructure.WithError(p.Logger, err).WarnContext(ctx, "Failed to remove report after failed run",
				slog.String("path", path))
		}
	}
}

// stage runs fn inside a telemetry span named after the stage
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, end := p.Telemetry.StartStage(ctx, name)
	err := fn(ctx)
	end(err)
	if err != nil {
		p.Logger.ErrorContext(ctx, "Report stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()))
	}
	return err
}
