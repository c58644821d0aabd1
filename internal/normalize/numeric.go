package normalize

import (
	"math"
	"strconv"
	"strings"
)

// currency markers seen in scanned policy text. "â‚¹" is the UTF-8 rupee
// sign read back through a Latin-1 round trip, which some PDF text layers
// produce.
var currencyMarkers = []string{"â‚¹", "₹", "Rs.", "Rs", "INR", "$"}

// Numeric converts a heterogeneous raw scalar into a float64. String inputs
// are stripped of currency symbols, thousands separators, and surrounding
// whitespace; numeric inputs are coerced directly. Any failure yields 0.0 —
// premium fields must never abort a document, the discrepancy surfaces later
// as a reconciliation warning.
func Numeric(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		for _, m := range currencyMarkers {
			s = strings.ReplaceAll(s, m, "")
		}
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// finite guards the non-finite spellings ParseFloat accepts ("NaN", "Inf",
// "infinity"). A NaN premium would slip past every tolerance comparison
// downstream, so it maps to 0 like any other unusable input.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
