package domain

import (
	"time"
)

// PaymentType tells whether the consignee pays at the door
type PaymentType string

const (
	PaymentCOD     PaymentType = "COD"
	PaymentPrepaid PaymentType = "Prepaid"
)

// DerivedRow is the flattened, display-ready view of one shipment.
// Rows are built once by the transformer and never mutated afterwards.
type DerivedRow struct {
	TrackingNumber   string      `json:"tracking_number"`
	PaymentType      PaymentType `json:"payment_type"`
	PickupTime       time.Time   `json:"pickup_time"`
	DeliveryTime     time.Time   `json:"delivery_time"`
	DaysTaken        int         `json:"days_taken"`
	Weight           string      `json:"weight"`
	PickupAddress    string      `json:"pickup_address"`
	DropAddress      string      `json:"drop_address"`
	DeliveryAttempts int         `json:"delivery_attempts"`
}

// ColumnStats holds the central tendency of one numeric report column
type ColumnStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
}

// SummaryStats is the content of the delivery statistics table.
// Empty is set when there were no rows to summarise.
type SummaryStats struct {
	Rows             int         `json:"rows"`
	Empty            bool        `json:"empty"`
	DaysTaken        ColumnStats `json:"days_taken"`
	DeliveryAttempts ColumnStats `json:"delivery_attempts"`
}
