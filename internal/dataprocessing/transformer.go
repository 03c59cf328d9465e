package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"shipreport/internal/config"
	"shipreport/internal/shared"
	"shipreport/pkg/contracts/domain"
)

// TransformerConfig holds the options for a Transformer
type TransformerConfig struct {
	Location *time.Location
	Policy   config.ErrorPolicy
	// OnSkip is called for every record dropped under the skip policy
	OnSkip func(index int, err error)
}

// Transformer derives report rows from shipment records
type Transformer struct {
	logger   *slog.Logger
	timeline *TimelineResolver
	policy   config.ErrorPolicy
	onSkip   func(index int, err error)
}

// NewTransformer creates a transformer. The zero config displays times in
// UTC and aborts on the first bad record.
func NewTransformer(logger *slog.Logger, cfg TransformerConfig) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = config.PolicyAbort
	}
	return &Transformer{
		logger:   logger.With(slog.String("component", "transformer")),
		timeline: NewTimelineResolver(cfg.Location),
		policy:   cfg.Policy,
		onSkip:   cfg.OnSkip,
	}
}

// Transform derives one row per record, preserving input order.
// Under the abort policy the first failure is returned and no rows are.
func (t *Transformer) Transform(ctx context.Context, records []domain.ShipmentRecord) ([]domain.DerivedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]domain.DerivedRow, 0, len(records))
	for i, rec := range records {
		row, err := t.TransformRecord(rec)
		if err != nil {
			err = withRecordContext(err, i, rec.TrackingNumber)
			if t.policy != config.PolicySkip {
				return nil, err
			}

			t.logger.WarnContext(ctx, "Skipping shipment record",
				slog.Int("index", i),
				slog.String("tracking_number", rec.TrackingNumber),
				slog.String("error", err.Error()))
			if t.onSkip != nil {
				t.onSkip(i, err)
			}
			continue
		}
		rows = append(rows, row)
	}

	t.logger.DebugContext(ctx, "Transformed shipment records",
		slog.Int("records", len(records)),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// TransformRecord derives the report row for a single record
func (t *Transformer) TransformRecord(rec domain.ShipmentRecord) (domain.DerivedRow, error) {
	tl, err := t.timeline.Resolve(rec.Events)
	if err != nil {
		return domain.DerivedRow{}, err
	}

	return domain.DerivedRow{
		TrackingNumber:   rec.TrackingNumber,
		PaymentType:      ResolvePaymentType(rec.SpecialHandlings),
		PickupTime:       tl.Pickup,
		DeliveryTime:     tl.Delivery,
		DaysTaken:        tl.DaysTaken,
		Weight:           FormatWeight(rec.Weight),
		PickupAddress:    tl.PickupAddress,
		DropAddress:      tl.DropAddress,
		DeliveryAttempts: CountDeliveryAttempts(rec.Events),
	}, nil
}

// FormatWeight renders "<value> <units>". Integer literals stay integers
// and decimals keep at least one fractional digit ("2.0").
func FormatWeight(w domain.ShipmentWeight) string {
	return shared.FormatNumber(w.Value) + " " + w.Units
}
