package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EventType is the carrier lifecycle code attached to a tracking event
type EventType string

const (
	EventPickedUp       EventType = "PU"
	EventDelivered      EventType = "DL"
	EventOutForDelivery EventType = "OD"
)

// SpecialHandlingCOD marks a shipment whose payment is collected at the door
const SpecialHandlingCOD = "COD"

// TrackDetailsEnvelope is one element of the input document.
// Only the first shipment inside trackDetails is used.
type TrackDetailsEnvelope struct {
	TrackDetails []json.RawMessage `json:"trackDetails"`
}

// ShipmentRecord is a single shipment as delivered by the tracking export
type ShipmentRecord struct {
	TrackingNumber   string            `json:"trackingNumber" validate:"required"`
	Weight           ShipmentWeight    `json:"shipmentWeight"`
	SpecialHandlings []SpecialHandling `json:"specialHandlings" validate:"required,dive"`
	Events           []Event           `json:"events" validate:"required,dive"`
}

// ShipmentWeight keeps the numeric literal exactly as it appeared in the input
type ShipmentWeight struct {
	Value json.Number `json:"value" validate:"required"`
	Units string      `json:"units" validate:"required"`
}

// SpecialHandling is a handling tag such as COD or DANGEROUS_GOODS
type SpecialHandling struct {
	Type string `json:"type" validate:"required"`
}

// Event is one scan in the shipment lifecycle
type Event struct {
	Type      EventType `json:"eventType" validate:"required"`
	Timestamp Timestamp `json:"timestamp"`
	Address   *Address  `json:"address,omitempty" validate:"-"` // checked for PU and DL scans only
}

// Timestamp is the extended-JSON wrapper {"$numberLong": "<millis>"}
type Timestamp struct {
	NumberLong string `json:"$numberLong" validate:"required,epochmillis"`
}

// TimestampFromMillis builds a Timestamp from epoch milliseconds
func TimestampFromMillis(ms int64) Timestamp {
	return Timestamp{NumberLong: strconv.FormatInt(ms, 10)}
}

// Millis returns the timestamp in milliseconds since the Unix epoch.
// Values that fail ParseMillis yield zero; records are validated at load.
func (t Timestamp) Millis() int64 {
	ms, _ := ParseMillis(t.NumberLong)
	return ms
}

// ParseMillis parses a string-encoded integer millisecond value
func ParseMillis(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// Address is the location reported with a scan
type Address struct {
	PostalCode          string `json:"postalCode" validate:"required"`
	StateOrProvinceCode string `json:"stateOrProvinceCode" validate:"required"`
	City                string `json:"city" validate:"required"`
}

// MissingField returns the JSON name of the first empty field, or ""
func (a Address) MissingField() string {
	switch {
	case a.PostalCode == "":
		return "postalCode"
	case a.StateOrProvinceCode == "":
		return "stateOrProvinceCode"
	case a.City == "":
		return "city"
	}
	return ""
}

// Display renders the address as "<postalCode>, <city>, <state>"
func (a Address) Display() string {
	return a.PostalCode + ", " + a.City + ", " + a.StateOrProvinceCode
}
