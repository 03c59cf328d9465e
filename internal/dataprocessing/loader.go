package dataprocessing

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shipreport/internal/errors"
	"shipreport/pkg/contracts/domain"
)

// Loader reads the tracking export and unwraps its trackDetails envelopes
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a loader with the shipment schema rules registered
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger.With(slog.String("component", "loader")),
		validate: newShipmentValidator(),
	}
}

func newShipmentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON keys in field paths instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("epochmillis", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMillis(fl.Field().String())
		return err == nil
	})

	return v
}

// Load opens path and decodes every shipment record in document order
func (l *Loader) Load(ctx context.Context, path string) ([]domain.ShipmentRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("open", path, err)
	}
	defer file.Close()

	records, err := l.Decode(ctx, file)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Loaded shipment records",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return records, nil
}

// Decode reads a whole input document from r. The document must be a JSON
// array whose elements are objects carrying a non-empty trackDetails array;
// the first entry of each trackDetails array is the shipment.
func (l *Loader) Decode(ctx context.Context, r io.Reader) ([]domain.ShipmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError("read", "input document", err)
	}

	if !startsWith(data, '[') {
		return nil, errors.NewInputFormatError("input document must be a JSON array", nil)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, errors.NewInputFormatError("input document is not valid JSON", err)
	}

	records := make([]domain.ShipmentRecord, 0, len(elements))
	for i, element := range elements {
		rec, err := l.decodeElement(element)
		if err != nil {
			return nil, withRecordContext(err, i, rec.TrackingNumber)
		}
		records = append(records, rec)
	}

	l.logger.DebugContext(ctx, "Decoded input document", slog.Int("elements", len(elements)))
	return records, nil
}

// decodeElement unwraps one envelope and validates the shipment inside it.
// The partially decoded record is returned alongside validation errors.
func (l *Loader) decodeElement(element json.RawMessage) (domain.ShipmentRecord, error) {
	var rec domain.ShipmentRecord

	if !startsWith(element, '{') {
		return rec, errors.NewInputFormatError("element is not an object", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil {
		return rec, errors.NewInputFormatError("element is not an object", err)
	}

	raw, ok := fields["trackDetails"]
	if !ok {
		return rec, errors.NewInputFormatError("element has no trackDetails", nil)
	}
	if !startsWith(raw, '[') {
		return rec, errors.NewInputFormatError("trackDetails is not an array", nil)
	}

	var env domain.TrackDetailsEnvelope
	if err := json.Unmarshal(element, &env); err != nil {
		return rec, errors.NewInputFormatError("trackDetails is not an array", err)
	}
	if len(env.TrackDetails) == 0 {
		return rec, errors.NewInputFormatError("trackDetails is empty", nil)
	}

	shipment := env.TrackDetails[0]
	if !startsWith(shipment, '{') {
		return rec, errors.NewInputFormatError("trackDetails[0] is not an object", nil)
	}
	if err := json.Unmarshal(shipment, &rec); err != nil {
		return rec, errors.NewInputFormatError("shipment has unexpected field types", err)
	}

	if err := l.validate.Struct(rec); err != nil {
		return rec, validationError(err, "")
	}
	return rec, l.validateScanAddresses(rec.Events)
}

// validateScanAddresses requires every PU and DL scan to carry a complete
// address. Addresses on other scans are never read.
func (l *Loader) validateScanAddresses(events []domain.Event) error {
	for i, ev := range events {
		if ev.Type != domain.EventPickedUp && ev.Type != domain.EventDelivered {
			continue
		}
		prefix := fmt.Sprintf("events[%d].address", i)
		if ev.Address == nil {
			return errors.NewMissingFieldError(prefix)
		}
		if err := l.validate.Struct(ev.Address); err != nil {
			return validationError(err, prefix)
		}
	}
	return nil
}

// validationError maps the first schema violation to a domain error. A
// non-empty prefix roots the reported field path.
func validationError(err error, prefix string) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewInputFormatError("shipment failed validation", err)
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	if prefix != "" {
		field = prefix + "." + field
	}
	if fe.Tag() == "required" {
		return errors.NewMissingFieldError(field)
	}
	return errors.NewInputFormatError(fmt.Sprintf("invalid value %q for %s", fmt.Sprint(fe.Value()), field), nil).
		WithContext("field", field)
}

// fieldPath strips the struct name validator puts in front of every namespace
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func withRecordContext(err error, index int, trackingNumber string) error {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return err
	}
	appErr.WithContext("index", index)
	if trackingNumber != "" {
		appErr.WithContext("tracking_number", trackingNumber)
	}
	return appErr
}

func startsWith(data []byte, c byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == c
}
