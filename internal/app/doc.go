// Package app orchestrates a shipment report run.
//
// # Run Flow
//
//	1. Validate the input file and the output directories
//	2. Load shipment records from the tracking export
//	3. Transform every record into a report row
//	4. Summarise the numeric columns
//	5. Write the shipments CSV, then the statistics CSV, then the optional workbook
//
// Each step runs inside a telemetry span, and per-row delivery metrics are
// recorded once transformation succeeded. Any failure stops the run before
// the next step.
//
// # Usage
//
//	pipeline, err := app.NewPipeline(cfg, paths, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	result, err := pipeline.Run(ctx)
package app
