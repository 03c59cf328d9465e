package dataprocessing

import (
	"fmt"
	"time"

	"shipreport/internal/errors"
	"shipreport/pkg/contracts/domain"
)

const day = 24 * time.Hour

// Timeline is the pickup/delivery view of a shipment's event list
type Timeline struct {
	Pickup        time.Time
	Delivery      time.Time
	PickupAddress string
	DropAddress   string
	DaysTaken     int
}

// TimelineResolver picks the effective PU and DL events and renders their
// instants in the display location
type TimelineResolver struct {
	loc *time.Location
}

// NewTimelineResolver creates a resolver for the given display location.
// A nil location means UTC.
func NewTimelineResolver(loc *time.Location) *TimelineResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &TimelineResolver{loc: loc}
}

// Location returns the display location
func (r *TimelineResolver) Location() *time.Location {
	return r.loc
}

// Resolve scans events in order; a later PU or DL replaces an earlier one.
// DaysTaken counts whole 24h periods between the two instants, rounding
// towards negative infinity, so it does not depend on the display location.
func (r *TimelineResolver) Resolve(events []domain.Event) (Timeline, error) {
	pickup, delivery := -1, -1
	for i, ev := range events {
		switch ev.Type {
		case domain.EventPickedUp:
			pickup = i
		case domain.EventDelivered:
			delivery = i
		}
	}

	if delivery < 0 {
		return Timeline{}, errors.NewMissingEventError(string(domain.EventDelivered))
	}
	if pickup < 0 {
		return Timeline{}, errors.NewMissingEventError(string(domain.EventPickedUp))
	}

	pu, dl := events[pickup], events[delivery]
	if err := checkAddress(dl, delivery); err != nil {
		return Timeline{}, err
	}
	if err := checkAddress(pu, pickup); err != nil {
		return Timeline{}, err
	}

	tl := Timeline{
		Pickup:        time.UnixMilli(pu.Timestamp.Millis()).In(r.loc),
		Delivery:      time.UnixMilli(dl.Timestamp.Millis()).In(r.loc),
		PickupAddress: pu.Address.Display(),
		DropAddress:   dl.Address.Display(),
	}
	tl.DaysTaken = wholeDays(tl.Delivery.Sub(tl.Pickup))
	return tl, nil
}

// checkAddress requires the scan at index i to carry a complete address
func checkAddress(ev domain.Event, i int) error {
	if ev.Address == nil {
		return errors.NewMissingFieldError(fmt.Sprintf("events[%d].address", i))
	}
	if field := ev.Address.MissingField(); field != "" {
		return errors.NewMissingFieldError(fmt.Sprintf("events[%d].address.%s", i, field))
	}
	return nil
}

func wholeDays(d time.Duration) int {
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}
