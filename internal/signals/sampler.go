package signals

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/seenimoa/quantsignal/pkg/utils"
)

// Sampling defaults. DefaultSensitivity doubles as the spread of the
// score distribution.
const (
	DefaultMean        = 0.1
	DefaultSensitivity = 0.6
	MinSensitivity     = 0.1
	MaxSensitivity     = 1.0
)

// Sampler draws sentiment scores from a normal distribution.
type Sampler struct {
	dist distuv.Normal
}

// NewSampler returns a sampler with the given mean and spread that draws
// from src. A nil src falls back to the global generator.
func NewSampler(mean, spread float64, src rand.Source) Sampler {
	return Sampler{dist: distuv.Normal{Mu: mean, Sigma: spread, Src: src}}
}

// Sample draws one score rounded to two decimals.
func (s Sampler) Sample() float64 {
	return utils.RoundHalfEven(s.dist.Rand(), 2)
}

// Mean returns the distribution mean.
func (s Sampler) Mean() float64 { return s.dist.Mu }

// Spread returns the distribution standard deviation.
func (s Sampler) Spread() float64 { return s.dist.Sigma }
