package exporter

import (
	"log/slog"

	"shipreport/internal/config"
	"shipreport/pkg/contracts/domain"
)

// ShipmentHeaders is the header row of the shipments report
var ShipmentHeaders = []string{
	config.HeaderTrackingNumber,
	config.HeaderPaymentType,
	config.HeaderPickupTime,
	config.HeaderDeliveryTime,
	config.HeaderDaysTaken,
	config.HeaderShipmentWeight,
	config.HeaderPickupAddress,
	config.HeaderDropAddress,
	config.HeaderDeliveryAttempts,
}

// ShipmentReport writes one CSV row per derived shipment row
type ShipmentReport struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewShipmentReport creates a shipments report exporter
func NewShipmentReport(writer *CSVWriter, logger *slog.Logger) *ShipmentReport {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShipmentReport{writer: writer, logger: logger}
}

// Write writes the header and rows to path in row order
func (r *ShipmentReport) Write(path string, rows []domain.DerivedRow) error {
	if err := r.writer.WriteCSV(path, WriteOptions{
		Headers: ShipmentHeaders,
		Records: ShipmentRecords(rows),
		UseCRLF: true,
	}); err != nil {
		return err
	}

	r.logger.Debug("Shipments report written",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return nil
}

// ShipmentRecords converts rows to CSV records
func ShipmentRecords(rows []domain.DerivedRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.TrackingNumber,
			string(row.PaymentType),
			formatTimestamp(row.PickupTime),
			formatTimestamp(row.DeliveryTime),
			formatInt(row.DaysTaken),
			row.Weight,
			row.PickupAddress,
			row.DropAddress,
			formatInt(row.DeliveryAttempts),
		})
	}
	return records
}
