// Package exporter writes the shipment report outputs.
//
// CSVWriter is the core CSV encoder; every file it produces is published
// atomically through files.Manager. ShipmentReport and StatsReport lay out
// the two report tables, and WorkbookExporter writes both tables into a
// single XLSX workbook when one is configured.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(files.NewManager(paths.BaseDir, logger), logger)
//	if err := exporter.NewShipmentReport(writer, logger).Write(paths.ShipmentsCSV, rows); err != nil {
//	    return err
//	}
//	err := exporter.NewStatsReport(writer, logger).Write(paths.StatsCSV, stats)
package exporter
