package shared

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders f the way report consumers expect decimal cells:
// shortest round-trip digits, always with a fractional part ("2.0", "1.5"),
// and exponent notation only outside [1e-4, 1e16).
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		return s
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatNumber renders a JSON number literal. Integer literals stay integers;
// anything with a fraction or exponent is normalised through FormatFloat.
func FormatNumber(n json.Number) string {
	s := strings.TrimSpace(n.String())
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return FormatFloat(f)
}
