package exporter

import (
	"fmt"
	"strconv"
	"time"

	"shipreport/internal/shared"
)

// formatTimestamp renders t as "2006-01-02 15:04:05+05:30", adding a
// six digit microsecond fraction only when it is non-zero
func formatTimestamp(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if micros := t.Nanosecond() / 1000; micros != 0 {
		return t.Format(layout) + fmt.Sprintf(".%06d", micros) + t.Format("-07:00")
	}
	return t.Format(layout + "-07:00")
}

// formatFloat formats a statistic cell ("2.5", "2.0")
func formatFloat(f float64) string {
	return shared.FormatFloat(f)
}

// formatInt formats an integer cell
func formatInt(i int) string {
	return strconv.Itoa(i)
}
