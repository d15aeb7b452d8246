// Package utils provides small formatting and rounding helpers.
package utils

import (
	"math"
	"strconv"
)

// RoundHalfEven rounds x to the given number of decimal places using
// round-half-to-even, the rounding used by the sampled sentiment scores.
func RoundHalfEven(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// FormatScore renders a score with the shortest representation that
// round-trips, e.g. 0.1 → "0.1", -0.42 → "-0.42".
func FormatScore(s float64) string {
	if s == 0 {
		return "0.0"
	}
	out := strconv.FormatFloat(s, 'f', -1, 64)
	for _, c := range out {
		if c == '.' {
			return out
		}
	}
	return out + ".0"
}

// FormatPercent renders an integer percentage, e.g. 72 → "72%".
func FormatPercent(p int) string {
	return strconv.Itoa(p) + "%"
}
