package signals

import (
	"math"

	"github.com/seenimoa/quantsignal/pkg/utils"
)

// Confidence bounds and the inclusive upper bound of the jitter term.
const (
	MinConfidence = 55
	MaxConfidence = 95
	MaxJitter     = 10
)

// IntSource supplies uniform integers in [0, n).
type IntSource interface {
	IntN(n int) int
}

// Confidence derives a pseudo-confidence from score plus a jitter drawn
// uniformly from [0, MaxJitter].
func Confidence(score float64, src IntSource) int {
	return ConfidenceWithJitter(score, src.IntN(MaxJitter+1))
}

// ConfidenceWithJitter is Confidence with the jitter supplied. The result is
// clamped to [MinConfidence, MaxConfidence] and truncated toward zero.
func ConfidenceWithJitter(score float64, jitter int) int {
	raw := math.Abs(score)*100 + float64(jitter)
	if math.IsNaN(raw) {
		return MinConfidence
	}
	return int(utils.Clamp(raw, MinConfidence, MaxConfidence))
}
