package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shipreport/pkg/contracts/domain"
)

// Addresses used across the shipment fixtures
var (
	MumbaiAddress = domain.Address{PostalCode: "400001", City: "Mumbai", StateOrProvinceCode: "MH"}
	DelhiAddress  = domain.Address{PostalCode: "110001", City: "New Delhi", StateOrProvinceCode: "DL"}
)

// ShipmentBuilder assembles a shipment record for tests
type ShipmentBuilder struct {
	rec domain.ShipmentRecord
}

// NewShipment starts a prepaid 2 KG shipment with no events
func NewShipment(trackingNumber string) *ShipmentBuilder {
	return &ShipmentBuilder{rec: domain.ShipmentRecord{
		TrackingNumber:   trackingNumber,
		Weight:           domain.ShipmentWeight{Value: json.Number("2"), Units: "KG"},
		SpecialHandlings: []domain.SpecialHandling{},
		Events:           []domain.Event{},
	}}
}

// WithWeight sets the weight literal and units
func (b *ShipmentBuilder) WithWeight(value, units string) *ShipmentBuilder {
	b.rec.Weight = domain.ShipmentWeight{Value: json.Number(value), Units: units}
	return b
}

// WithHandling appends special handling entries
func (b *ShipmentBuilder) WithHandling(types ...string) *ShipmentBuilder {
	for _, typ := range types {
		b.rec.SpecialHandlings = append(b.rec.SpecialHandlings, domain.SpecialHandling{Type: typ})
	}
	return b
}

// WithEvent appends an event at the given instant
func (b *ShipmentBuilder) WithEvent(typ domain.EventType, at time.Time, addr *domain.Address) *ShipmentBuilder {
	b.rec.Events = append(b.rec.Events, Event(typ, at, addr))
	return b
}

// PickedUp appends a PU event at Mumbai
func (b *ShipmentBuilder) PickedUp(at time.Time) *ShipmentBuilder {
	addr := MumbaiAddress
	return b.WithEvent(domain.EventPickedUp, at, &addr)
}

// OutForDelivery appends an OD event without an address
func (b *ShipmentBuilder) OutForDelivery(at time.Time) *ShipmentBuilder {
	return b.WithEvent(domain.EventOutForDelivery, at, nil)
}

// Delivered appends a DL event at New Delhi
func (b *ShipmentBuilder) Delivered(at time.Time) *ShipmentBuilder {
	addr := DelhiAddress
	return b.WithEvent(domain.EventDelivered, at, &addr)
}

// Build returns the assembled record
func (b *ShipmentBuilder) Build() domain.ShipmentRecord {
	return b.rec
}

// Event builds a single event at the given instant
func Event(typ domain.EventType, at time.Time, addr *domain.Address) domain.Event {
	return domain.Event{
		Type:      typ,
		Timestamp: domain.TimestampFromMillis(at.UnixMilli()),
		Address:   addr,
	}
}

// MustTime parses an RFC 3339 timestamp or fails the test
func MustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("invalid fixture time %q: %v", value, err)
	}
	return ts
}

// Document encodes records in the trackDetails envelope layout
func Document(t *testing.T, records ...domain.ShipmentRecord) []byte {
	t.Helper()
	type envelope struct {
		TrackDetails []domain.ShipmentRecord `json:"trackDetails"`
	}
	doc := make([]envelope, 0, len(records))
	for _, rec := range records {
		doc = append(doc, envelope{TrackDetails: []domain.ShipmentRecord{rec}})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode fixture document: %v", err)
	}
	return data
}

// WriteDocument writes records as an input document under dir and returns its path
func WriteDocument(t *testing.T, dir string, records ...domain.ShipmentRecord) string {
	t.Helper()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, Document(t, records...), 0644); err != nil {
		t.Fatalf("failed to write fixture document: %v", err)
	}
	return path
}
