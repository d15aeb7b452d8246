// Package signals turns sampled sentiment scores into BUY/HOLD/SELL signals
// with a bounded confidence and a templated justification.
//
// Classification and justification share a single banding function so a
// row can never carry a signal from one band and a rationale from another.
package signals

import (
	"fmt"

	"github.com/seenimoa/quantsignal/pkg/models"
)

// Band thresholds. Comparisons are strict: a score equal to either
// threshold is HOLD.
const (
	BuyThreshold  = 0.35
	SellThreshold = -0.25
)

// DefaultUniverse is the fixed list of entities evaluated each cycle.
var DefaultUniverse = []string{"Apple", "Microsoft", "NVIDIA", "Amazon", "Alphabet"}

const (
	buyTemplate  = "Positive insider commentary and strong institutional positioning suggest upside momentum in %s."
	sellTemplate = "Negative forward guidance and cautious analyst tone indicate downside risk in %s."
	holdTemplate = "Mixed sentiment signals and neutral positioning suggest limited directional conviction in %s."
)

func bandOf(score float64) models.SignalType {
	switch {
	case score > BuyThreshold:
		return models.SignalBuy
	case score < SellThreshold:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

// Classify maps a sentiment score to its signal band.
func Classify(score float64) models.SignalType {
	return bandOf(score)
}

// Justification returns the rationale sentence for the score's band with
// the entity name interpolated verbatim.
func Justification(name string, score float64) string {
	return fmt.Sprintf(justificationTemplate(bandOf(score)), name)
}

func justificationTemplate(st models.SignalType) string {
	switch st {
	case models.SignalBuy:
		return buyTemplate
	case models.SignalSell:
		return sellTemplate
	default:
		return holdTemplate
	}
}
