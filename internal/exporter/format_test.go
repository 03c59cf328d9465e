package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "whole seconds",
			in:   time.Date(2023, 1, 2, 1, 30, 0, 0, ist),
			want: "2023-01-02 01:30:00+05:30",
		},
		{
			name: "milliseconds become microseconds",
			in:   time.Date(2023, 1, 2, 1, 30, 0, 123_000_000, ist),
			want: "2023-01-02 01:30:00.123000+05:30",
		},
		{
			name: "utc offset",
			in:   time.Date(2023, 1, 2, 1, 30, 0, 0, time.UTC),
			want: "2023-01-02 01:30:00+00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimestamp(tt.in))
		})
	}
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "2.0", formatFloat(2))
	assert.Equal(t, "2.5", formatFloat(2.5))
	assert.Equal(t, "3", formatInt(3))
	assert.Equal(t, "-1", formatInt(-1))
}
