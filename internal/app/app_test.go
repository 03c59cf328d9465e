package app

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipreport/internal/config"
	"shipreport/internal/errors"
	"shipreport/internal/infrastructure"
	"shipreport/internal/shared/testutil"
	"shipreport/pkg/contracts/domain"
)

func newTestPipeline(t *testing.T, mutate func(cfg *config.Config), records ...domain.ShipmentRecord) (*Pipeline, *config.Paths) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteDocument(t, dir, records...)

	cfg := config.Default()
	cfg.Report.BaseDir = dir
	if mutate != nil {
		mutate(cfg)
	}

	paths, err := config.GetPaths(cfg)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	pipeline, err := NewPipeline(cfg, paths, logger, nil)
	require.NoError(t, err)
	return pipeline, paths
}

func sampleRecords(t *testing.T) []domain.ShipmentRecord {
	pickup := testutil.MustTime(t, "2023-01-01T10:00:00Z")
	return []domain.ShipmentRecord{
		testutil.NewShipment("TN1").
			PickedUp(pickup).
			OutForDelivery(testutil.MustTime(t, "2023-01-03T09:00:00Z")).
			Delivered(testutil.MustTime(t, "2023-01-03T12:00:00Z")).
			Build(),
		testutil.NewShipment("TN2").
			WithHandling("COD").
			WithWeight("1.5", "KG").
			PickedUp(pickup).
			Delivered(testutil.MustTime(t, "2023-01-02T10:00:00Z")).
			Build(),
		testutil.NewShipment("TN3").
			PickedUp(pickup).
			OutForDelivery(testutil.MustTime(t, "2023-01-02T06:00:00Z")).
			OutForDelivery(testutil.MustTime(t, "2023-01-03T06:00:00Z")).
			Delivered(testutil.MustTime(t, "2023-01-04T07:00:00Z")).
			Build(),
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
}

func TestPipelineRun(t *testing.T) {
	pipeline, paths := newTestPipeline(t, nil, sampleRecords(t)...)

	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Records)
	assert.Equal(t, 3, result.Rows)
	assert.Zero(t, result.Skipped)
	assert.NotEmpty(t, result.TraceID)
	assert.Equal(t, filepath.Join(paths.BaseDir, "output.csv"), result.ShipmentsFile)

	lines := readLines(t, paths.ShipmentsCSV)
	require.Len(t, lines, 4)
	assert.Equal(t, "Tracking number,Payment Type,Pickup Date Time in IST,Delivery Date Time in IST,"+
		"Days taken for delivery,Shipment weight,\"Pickup Pincode, City, State\","+
		"\"Drop Pincode, City, State\",Number of delivery attempts needed\r", lines[0])
	assert.Equal(t, "TN1,Prepaid,2023-01-01 15:30:00+05:30,2023-01-03 17:30:00+05:30,2,2 KG,"+
		"\"400001, Mumbai, MH\",\"110001, New Delhi, DL\",1\r", lines[1])
	assert.Equal(t, "TN2,COD,2023-01-01 15:30:00+05:30,2023-01-02 15:30:00+05:30,1,1.5 KG,"+
		"\"400001, Mumbai, MH\",\"110001, New Delhi, DL\",1\r", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "TN3,Prepaid,"))
	assert.True(t, strings.HasSuffix(lines[3], ",2,2 KG,\"400001, Mumbai, MH\",\"110001, New Delhi, DL\",3\r"))

	// days [2, 1, 2], attempts [1, 1, 3]
	assert.InDelta(t, 5.0/3.0, result.Stats.DaysTaken.Mean, 1e-9)
	assert.Equal(t, 2.0, result.Stats.DaysTaken.Median)
	assert.Equal(t, 2.0, result.Stats.DaysTaken.Mode)
	assert.InDelta(t, 5.0/3.0, result.Stats.DeliveryAttempts.Mean, 1e-9)
	assert.Equal(t, 1.0, result.Stats.DeliveryAttempts.Median)
	assert.Equal(t, 1.0, result.Stats.DeliveryAttempts.Mode)

	assert.Equal(t, []string{
		"Metric,Days taken for delivery,Number of delivery attempts needed",
		"Mean,1.6666666666666667,1.6666666666666667",
		"Median,2.0,1.0",
		"Mode,2.0,1.0",
	}, readLines(t, paths.StatsCSV))

	assert.NoFileExists(t, filepath.Join(paths.BaseDir, "report.xlsx"))
}

func TestPipelineRunMissingEventWritesNothing(t *testing.T) {
	at := testutil.MustTime(t, "2023-01-01T10:00:00Z")
	records := append(sampleRecords(t), testutil.NewShipment("TN4").PickedUp(at).Build())
	pipeline, paths := newTestPipeline(t, nil, records...)

	result, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrTypeMissingEvent))
	assert.Contains(t, err.Error(), "tracking_number=TN4")

	assert.NoFileExists(t, paths.ShipmentsCSV)
	assert.NoFileExists(t, paths.StatsCSV)
}

func TestPipelineRunStatsFailureRemovesShipments(t *testing.T) {
	pipeline, paths := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Report.StatsPath = "stats"
	}, sampleRecords(t)...)

	// a non-empty directory at the stats path makes the final rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(paths.StatsCSV, "keep"), 0755))

	result, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrTypeIO))

	assert.NoFileExists(t, paths.ShipmentsCSV)
	assert.DirExists(t, filepath.Join(paths.StatsCSV, "keep"))
}

func TestPipelineRunSkipPolicy(t *testing.T) {
	at := testutil.MustTime(t, "2023-01-01T10:00:00Z")
	records := []domain.ShipmentRecord{
		testutil.NewShipment("BAD").Delivered(at).Build(),
		sampleRecords(t)[1],
	}
	pipeline, paths := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Processing.ErrorPolicy = config.PolicySkip
	}, records...)

	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, 1, result.Skipped)

	lines := readLines(t, paths.ShipmentsCSV)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "TN2,"))
}

func TestPipelineRunEmptyDocument(t *testing.T) {
	pipeline, paths := newTestPipeline(t, nil)

	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Rows)
	assert.True(t, result.Stats.Empty)

	assert.Len(t, readLines(t, paths.ShipmentsCSV), 1)
	assert.Equal(t, []string{
		"Metric,Days taken for delivery,Number of delivery attempts needed",
		"Mean,,",
		"Median,,",
		"Mode,,",
	}, readLines(t, paths.StatsCSV))
}

func TestPipelineRunMissingInput(t *testing.T) {
	pipeline, paths := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Input.Path = "absent.json"
	})

	_, err := pipeline.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeIO))
	assert.NoFileExists(t, paths.ShipmentsCSV)
}

func TestPipelineRunWritesWorkbookAndTelemetry(t *testing.T) {
	pipeline, paths := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Report.WorkbookPath = "report.xlsx"
		cfg.Telemetry.MetricsFile = "metrics/shipreport.prom"
	}, sampleRecords(t)...)

	telemetry, err := infrastructure.InitializeTelemetry(context.Background(), infrastructure.TelemetryOptions{
		MetricsFile: paths.MetricsFile,
	}, pipeline.Logger)
	require.NoError(t, err)

	pipeline, err = NewPipeline(pipeline.Config, paths, pipeline.Logger, telemetry)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, paths.WorkbookXLSX)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, telemetry.Shutdown(ctx))

	data, err := os.ReadFile(paths.MetricsFile)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`(?m)^shipreport_records_loaded_total(\{[^}]*\})? 3$`), string(data))
	assert.Regexp(t, regexp.MustCompile(`(?m)^shipreport_rows_written_total(\{[^}]*\})? 3$`), string(data))
}
