package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"shipreport/pkg/contracts"
)

const (
	// MeterName is the instrumentation scope for every instrument and tracer
	MeterName = "shipreport"
)

// TelemetryOptions holds the resolved telemetry settings for one run
type TelemetryOptions struct {
	ServiceName string
	// MetricsFile receives a Prometheus text exposition on Shutdown. Empty disables it.
	MetricsFile string
	// TraceFile receives one JSON span per pipeline stage. Empty disables tracing.
	TraceFile string
}

// RunMetrics are the instruments recorded by a report run
type RunMetrics struct {
	RecordsLoaded    metric.Int64Counter
	RowsWritten      metric.Int64Counter
	RecordsSkipped   metric.Int64Counter
	DeliveryAttempts metric.Int64Histogram
	DaysTaken        metric.Int64Histogram
	StageDuration    metric.Float64Histogram
}

// Telemetry owns the tracer and meter providers for a batch run.
// Metrics always go to a private registry so instruments are cheap to use;
// they are only persisted when a metrics file is configured.
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *RunMetrics

	opts           TelemetryOptions
	logger         *slog.Logger
	registry       *prometheus.Registry
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	traceFile      *os.File
	closed         bool
}

// InitializeTelemetry sets up tracing and metrics for a run
func InitializeTelemetry(ctx context.Context, opts TelemetryOptions, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = MeterName
	}

	res, err := createResource(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{
		opts:     opts,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := t.initializeTracing(res); err != nil {
		_ = t.meterProvider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("service", opts.ServiceName),
		slog.String("metrics_file", opts.MetricsFile),
		slog.String("trace_file", opts.TraceFile))

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource(opts TelemetryOptions) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", GenerateTraceID()),
	), nil
}

// initializeTracing writes spans to the trace file, or uses a no-op tracer
func (t *Telemetry) initializeTracing(res *resource.Resource) error {
	if t.opts.TraceFile == "" {
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.opts.TraceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.Create(t.opts.TraceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// A batch run is short; export each span as it ends.
	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.traceFile = file
	t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	return nil
}

// initializeMetrics bridges OpenTelemetry instruments to a Prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.registry),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	metrics, err := createRunMetrics(t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version)))
	if err != nil {
		return err
	}
	t.Metrics = metrics
	return nil
}

// createRunMetrics creates the report-run instruments
func createRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	recordsLoaded, err := meter.Int64Counter(
		"shipreport_records_loaded",
		metric.WithDescription("Shipment records read from the input document"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"shipreport_rows_written",
		metric.WithDescription("Rows written to the shipments report"),
	)
	if err != nil {
		return nil, err
	}

	recordsSkipped, err := meter.Int64Counter(
		"shipreport_records_skipped",
		metric.WithDescription("Shipment records dropped by the skip error policy"),
	)
	if err != nil {
		return nil, err
	}

	deliveryAttempts, err := meter.Int64Histogram(
		"shipreport_delivery_attempts",
		metric.WithDescription("Delivery attempts needed per shipment"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 8),
	)
	if err != nil {
		return nil, err
	}

	daysTaken, err := meter.Int64Histogram(
		"shipreport_days_taken",
		metric.WithDescription("Whole days between pickup and delivery"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 7, 14, 30),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"shipreport_stage_duration_seconds",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RecordsLoaded:    recordsLoaded,
		RowsWritten:      rowsWritten,
		RecordsSkipped:   recordsSkipped,
		DeliveryAttempts: deliveryAttempts,
		DaysTaken:        daysTaken,
		StageDuration:    stageDuration,
	}, nil
}

// StartStage opens a span for a pipeline stage. The returned function ends
// the span, records the stage duration and marks the span failed when err is set.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, "shipreport."+stage,
		trace.WithAttributes(attribute.String("run.trace_id", GetTraceID(ctx))))

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("stage", stage),
				attribute.String("status", status),
			))
	}
}

// Gatherer exposes the metrics registry, mainly for tests
func (t *Telemetry) Gatherer() prometheus.Gatherer {
	return t.registry
}

// Shutdown flushes spans, writes the metrics file when configured and
// releases the providers. It is safe to call on every exit path.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		t.tracerProvider = nil
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
		t.traceFile = nil
	}

	if t.opts.MetricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.opts.MetricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.opts.MetricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics file: %w", err))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		t.meterProvider = nil
	}

	if err := errors.Join(errs...); err != nil {
		t.logger.ErrorContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
