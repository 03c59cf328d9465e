package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"shipreport/internal/config"
	"shipreport/internal/errors"
	"shipreport/internal/files"
	"shipreport/pkg/contracts/domain"
)

// WorkbookExporter writes both report tables into one XLSX workbook with
// a Shipments sheet and a Statistics sheet
type WorkbookExporter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(manager *files.Manager, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{files: manager, logger: logger}
}

// Write builds the workbook and publishes it atomically at path
func (e *WorkbookExporter) Write(path string, rows []domain.DerivedRow, stats domain.SummaryStats) error {
	f, err := BuildWorkbook(rows, stats)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := e.files.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return errors.NewIOError("write", path, err)
	}

	e.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return nil
}

// BuildWorkbook lays out the shipments and statistics tables. Numeric
// columns are stored as numbers, timestamps as the same text as the CSV.
func BuildWorkbook(rows []domain.DerivedRow, stats domain.SummaryStats) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), config.SheetShipments); err != nil {
		f.Close()
		return nil, workbookError("rename sheet", err)
	}
	if _, err := f.NewSheet(config.SheetStatistics); err != nil {
		f.Close()
		return nil, workbookError("create sheet", err)
	}

	if err := setRow(f, config.SheetShipments, 1, stringsToCells(ShipmentHeaders)); err != nil {
		f.Close()
		return nil, err
	}
	for i, row := range rows {
		cells := []interface{}{
			row.TrackingNumber,
			string(row.PaymentType),
			formatTimestamp(row.PickupTime),
			formatTimestamp(row.DeliveryTime),
			row.DaysTaken,
			row.Weight,
			row.PickupAddress,
			row.DropAddress,
			row.DeliveryAttempts,
		}
		if err := setRow(f, config.SheetShipments, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := setRow(f, config.SheetStatistics, 1, stringsToCells(StatsHeaders)); err != nil {
		f.Close()
		return nil, err
	}
	metrics := []struct {
		name           string
		days, attempts float64
	}{
		{config.MetricMean, stats.DaysTaken.Mean, stats.DeliveryAttempts.Mean},
		{config.MetricMedian, stats.DaysTaken.Median, stats.DeliveryAttempts.Median},
		{config.MetricMode, stats.DaysTaken.Mode, stats.DeliveryAttempts.Mode},
	}
	for i, m := range metrics {
		cells := []interface{}{m.name, m.days, m.attempts}
		if stats.Empty {
			cells = []interface{}{m.name}
		}
		if err := setRow(f, config.SheetStatistics, i+2, cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return workbookError("resolve cell", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return workbookError(fmt.Sprintf("write %s row %d", sheet, row), err)
	}
	return nil
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func workbookError(op string, err error) error {
	return errors.NewAppError(errors.ErrTypeIO, "failed to "+op+" in workbook", err)
}
