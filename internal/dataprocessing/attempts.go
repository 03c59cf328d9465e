package dataprocessing

import (
	"time"

	"shipreport/pkg/contracts/domain"
)

// CountDeliveryAttempts folds OD and DL events into a per-UTC-date counter.
//
// Each OD adds an attempt on its date. A DL closes an attempt opened on the
// date of the preceding second when there is one, and otherwise counts as an
// attempt of its own. Events are processed in the order given, which may
// differ from timestamp order. The result is never below 1.
func CountDeliveryAttempts(events []domain.Event) int {
	attempts := make(map[string]int)

	for _, ev := range events {
		seconds := floorDiv(ev.Timestamp.Millis(), 1000)
		date := utcDate(seconds)

		switch ev.Type {
		case domain.EventOutForDelivery:
			attempts[date]++
		case domain.EventDelivered:
			prior := utcDate(seconds - 1)
			if attempts[prior] > 0 {
				attempts[prior]--
			} else {
				attempts[date]++
			}
		}
	}

	total := 0
	for _, n := range attempts {
		total += n
	}
	if total <= 0 {
		return 1
	}
	return total
}

func utcDate(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(time.DateOnly)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
