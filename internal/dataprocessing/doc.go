// Package dataprocessing turns the tracking export into report rows and
// delivery statistics.
//
// # Components
//
//  1. Loader: decodes the JSON document, unwraps each trackDetails envelope
//     and validates the shipment schema
//  2. Transformer: derives one DerivedRow per shipment using
//     ResolvePaymentType, TimelineResolver and CountDeliveryAttempts
//  3. Summarizer: computes mean, median and mode of the numeric columns
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	records, err := loader.Load(ctx, "data.json")
//	if err != nil {
//	    return err
//	}
//
//	loc, _ := cfg.Location()
//	transformer := dataprocessing.NewTransformer(logger, dataprocessing.TransformerConfig{
//	    Location: loc,
//	    Policy:   cfg.Processing.ErrorPolicy,
//	})
//	rows, err := transformer.Transform(ctx, records)
//
//	stats, err := dataprocessing.NewSummarizer(logger).Summarize(rows)
//
// # Error Handling
//
// Errors are *errors.AppError values. Loader failures are INPUT_FORMAT,
// MISSING_FIELD or IO; transformation failures are MISSING_EVENT or
// MISSING_FIELD and carry the record index and tracking number.
package dataprocessing
