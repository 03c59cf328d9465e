package dataprocessing

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"shipreport/internal/config"
	"shipreport/internal/errors"
	"shipreport/pkg/contracts/domain"
)

// Summarizer computes the delivery statistics table from report rows
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a new summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With(slog.String("component", "summarizer"))}
}

// Summarize returns mean, median and mode of the days-taken and
// delivery-attempts columns. An empty row set yields Empty stats.
func (s *Summarizer) Summarize(rows []domain.DerivedRow) (domain.SummaryStats, error) {
	if len(rows) == 0 {
		s.logger.Debug("No rows to summarise")
		return domain.SummaryStats{Empty: true}, nil
	}

	df := Frame(rows)
	if df.Err != nil {
		return domain.SummaryStats{}, errors.NewAppError(errors.ErrTypeValidation, "failed to build statistics frame", df.Err)
	}

	stats := domain.SummaryStats{
		Rows:             df.Nrow(),
		DaysTaken:        columnStats(df.Col(config.HeaderDaysTaken)),
		DeliveryAttempts: columnStats(df.Col(config.HeaderDeliveryAttempts)),
	}

	s.logger.Debug("Summarised delivery statistics",
		slog.Int("rows", stats.Rows),
		slog.Float64("days_mean", stats.DaysTaken.Mean),
		slog.Float64("attempts_mean", stats.DeliveryAttempts.Mean))
	return stats, nil
}

// Frame builds the numeric columns of the shipments table as a dataframe
func Frame(rows []domain.DerivedRow) dataframe.DataFrame {
	days := make([]int, len(rows))
	attempts := make([]int, len(rows))
	for i, row := range rows {
		days[i] = row.DaysTaken
		attempts[i] = row.DeliveryAttempts
	}

	return dataframe.New(
		series.New(days, series.Int, config.HeaderDaysTaken),
		series.New(attempts, series.Int, config.HeaderDeliveryAttempts),
	)
}

func columnStats(col series.Series) domain.ColumnStats {
	return domain.ColumnStats{
		Mean:   col.Mean(),
		Median: col.Median(),
		Mode:   Mode(col.Float()),
	}
}

// Mode returns the most frequent value. Ties go to the value seen first,
// so [3, 2, 2, 3] yields 3. Empty input yields 0.
func Mode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	best := 0
	for _, v := range values {
		counts[v]++
		best = max(best, counts[v])
	}
	for _, v := range values {
		if counts[v] == best {
			return v
		}
	}
	return 0
}
