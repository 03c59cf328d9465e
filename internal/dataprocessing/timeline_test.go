package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipreport/internal/errors"
	"shipreport/internal/shared/testutil"
	"shipreport/pkg/contracts/domain"
)

var istZone = time.FixedZone("IST", 5*3600+30*60)

func TestTimelineResolverDaysTaken(t *testing.T) {
	pickup := testutil.MustTime(t, "2023-03-10T20:00:00Z")

	tests := []struct {
		name     string
		delivery time.Time
		want     int
	}{
		{name: "two days three hours", delivery: pickup.Add(2*day + 3*time.Hour), want: 2},
		{name: "just under a day", delivery: pickup.Add(day - time.Millisecond), want: 0},
		{name: "exactly one day", delivery: pickup.Add(day), want: 1},
		{name: "same instant", delivery: pickup, want: 0},
		{name: "delivery before pickup", delivery: pickup.Add(-time.Hour), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewShipment("TN").PickedUp(pickup).Delivered(tt.delivery).Build()

			for _, loc := range []*time.Location{time.UTC, istZone, nil} {
				tl, err := NewTimelineResolver(loc).Resolve(rec.Events)
				require.NoError(t, err)
				assert.Equal(t, tt.want, tl.DaysTaken)
			}
		})
	}
}

func TestTimelineResolverLocalizesTimes(t *testing.T) {
	pickup := testutil.MustTime(t, "2023-01-01T20:00:00Z")
	rec := testutil.NewShipment("TN").PickedUp(pickup).Delivered(pickup.Add(time.Hour)).Build()

	tl, err := NewTimelineResolver(istZone).Resolve(rec.Events)
	require.NoError(t, err)

	assert.True(t, tl.Pickup.Equal(pickup))
	assert.Equal(t, istZone, tl.Pickup.Location())
	assert.Equal(t, "2023-01-02 01:30:00", tl.Pickup.Format(time.DateTime))
	assert.Equal(t, "400001, Mumbai, MH", tl.PickupAddress)
	assert.Equal(t, "110001, New Delhi, DL", tl.DropAddress)
}

func TestTimelineResolverLastEventWins(t *testing.T) {
	first := testutil.MustTime(t, "2023-01-01T10:00:00Z")
	second := first.Add(day)
	pune := domain.Address{PostalCode: "411001", City: "Pune", StateOrProvinceCode: "MH"}

	rec := testutil.NewShipment("TN").
		PickedUp(first).
		WithEvent(domain.EventPickedUp, second, &pune).
		Delivered(second.Add(day)).
		Delivered(second.Add(3 * day)).
		Build()

	tl, err := NewTimelineResolver(time.UTC).Resolve(rec.Events)
	require.NoError(t, err)

	assert.True(t, tl.Pickup.Equal(second))
	assert.Equal(t, "411001, Pune, MH", tl.PickupAddress)
	assert.True(t, tl.Delivery.Equal(second.Add(3*day)))
	assert.Equal(t, 3, tl.DaysTaken)
}

func TestTimelineResolverErrors(t *testing.T) {
	at := testutil.MustTime(t, "2023-01-01T10:00:00Z")

	tests := []struct {
		name    string
		rec     domain.ShipmentRecord
		errType errors.ErrorType
		ctxKey  string
		ctxVal  any
	}{
		{
			name:    "no delivery",
			rec:     testutil.NewShipment("TN").PickedUp(at).OutForDelivery(at.Add(day)).Build(),
			errType: errors.ErrTypeMissingEvent,
			ctxKey:  "event_type",
			ctxVal:  "DL",
		},
		{
			name:    "no pickup",
			rec:     testutil.NewShipment("TN").Delivered(at).Build(),
			errType: errors.ErrTypeMissingEvent,
			ctxKey:  "event_type",
			ctxVal:  "PU",
		},
		{
			name:    "no events reports delivery first",
			rec:     testutil.NewShipment("TN").Build(),
			errType: errors.ErrTypeMissingEvent,
			ctxKey:  "event_type",
			ctxVal:  "DL",
		},
		{
			name: "delivery without address",
			rec: testutil.NewShipment("TN").
				PickedUp(at).
				WithEvent(domain.EventDelivered, at.Add(day), nil).
				Build(),
			errType: errors.ErrTypeMissingField,
			ctxKey:  "field",
			ctxVal:  "events[1].address",
		},
		{
			name: "pickup address without postal code",
			rec: testutil.NewShipment("TN").
				WithEvent(domain.EventPickedUp, at, &domain.Address{City: "Mumbai", StateOrProvinceCode: "MH"}).
				Delivered(at.Add(day)).
				Build(),
			errType: errors.ErrTypeMissingField,
			ctxKey:  "field",
			ctxVal:  "events[0].address.postalCode",
		},
		{
			name: "delivery address without state",
			rec: testutil.NewShipment("TN").
				PickedUp(at).
				WithEvent(domain.EventDelivered, at.Add(day), &domain.Address{PostalCode: "110001", City: "New Delhi"}).
				Build(),
			errType: errors.ErrTypeMissingField,
			ctxKey:  "field",
			ctxVal:  "events[1].address.stateOrProvinceCode",
		},
		{
			name: "delivery address without city",
			rec: testutil.NewShipment("TN").
				PickedUp(at).
				WithEvent(domain.EventDelivered, at.Add(day), &domain.Address{PostalCode: "110001", StateOrProvinceCode: "DL"}).
				Build(),
			errType: errors.ErrTypeMissingField,
			ctxKey:  "field",
			ctxVal:  "events[1].address.city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimelineResolver(time.UTC).Resolve(tt.rec.Events)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.ctxVal, appErr.Context[tt.ctxKey])
		})
	}
}
