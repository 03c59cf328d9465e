package exporter

import (
	"log/slog"

	"shipreport/internal/config"
	"shipreport/pkg/contracts/domain"
)

// StatsHeaders is the header row of the delivery statistics report
var StatsHeaders = []string{
	config.HeaderMetric,
	config.HeaderDaysTaken,
	config.HeaderDeliveryAttempts,
}

// StatsReport writes the Mean, Median and Mode rows
type StatsReport struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewStatsReport creates a statistics report exporter
func NewStatsReport(writer *CSVWriter, logger *slog.Logger) *StatsReport {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsReport{writer: writer, logger: logger}
}

// Write writes the statistics table to path
func (r *StatsReport) Write(path string, stats domain.SummaryStats) error {
	if err := r.writer.WriteCSV(path, WriteOptions{
		Headers: StatsHeaders,
		Records: StatsRecords(stats),
	}); err != nil {
		return err
	}

	r.logger.Debug("Statistics report written", slog.String("path", path))
	return nil
}

// StatsRecords converts summary statistics to CSV records. Empty stats
// keep the metric names with blank values.
func StatsRecords(stats domain.SummaryStats) [][]string {
	metric := func(name string, days, attempts float64) []string {
		if stats.Empty {
			return []string{name, "", ""}
		}
		return []string{name, formatFloat(days), formatFloat(attempts)}
	}

	return [][]string{
		metric(config.MetricMean, stats.DaysTaken.Mean, stats.DeliveryAttempts.Mean),
		metric(config.MetricMedian, stats.DaysTaken.Median, stats.DeliveryAttempts.Median),
		metric(config.MetricMode, stats.DaysTaken.Mode, stats.DeliveryAttempts.Mode),
	}
}
