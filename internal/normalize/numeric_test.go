package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericCurrencyStrings(t *testing.T) {
	cases := map[string]float64{
		"₹1,000.00":    1000,
		"â‚¹4,090.00":  4090,
		"Rs. 12,345.5": 12345.5,
		"INR 500":      500,
		"$99.99":       99.99,
		"  42 ":        42,
		"-150.25":      -150.25,
	}
	for in, want := range cases {
		assert.InDelta(t, want, Numeric(in), 1e-9, "input %q", in)
	}
}

func TestNumericCoercesNonStrings(t *testing.T) {
	assert.Equal(t, 12.5, Numeric(12.5))
	assert.Equal(t, float64(7), Numeric(7))
	assert.Equal(t, float64(7), Numeric(int64(7)))
	assert.InDelta(t, 1.5, Numeric(float32(1.5)), 1e-6)
}

func TestNumericTotality(t *testing.T) {
	// never fails, never returns a non-finite float. ParseFloat accepts the
	// non-finite spellings, so they must be caught explicitly.
	inputs := []any{
		nil, "", "N/A", "abc", "12abc", "₹", ",", true, []string{"x"}, map[string]any{},
		"NaN", "nan", "Inf", "-Inf", "+Inf", "infinity", math.NaN(), math.Inf(1), math.Inf(-1),
	}
	for _, in := range inputs {
		got := Numeric(in)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "input %v", in)
		assert.Equal(t, 0.0, got, "input %v", in)
	}
}

func TestNumericIdempotentOnNumericInput(t *testing.T) {
	for _, v := range []float64{0, 1000, -3.25, 4090} {
		assert.Equal(t, Numeric(v), Numeric(Numeric(v)))
	}
}
