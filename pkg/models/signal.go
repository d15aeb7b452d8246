// Package models defines the shared data types for QuantSignal.
package models

import "time"

// SignalType is the recommendation band a sentiment score falls into.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// AllSignalTypes returns the signal types in display order.
func AllSignalTypes() []SignalType {
	return []SignalType{SignalBuy, SignalHold, SignalSell}
}

// SignalRow is one generated signal for a single entity.
type SignalRow struct {
	Name           string     `json:"stock"           yaml:"stock"`
	SentimentScore float64    `json:"sentiment_score" yaml:"sentiment_score"`
	Signal         SignalType `json:"signal"          yaml:"signal"`
	Confidence     int        `json:"confidence"      yaml:"confidence"` // percent, 55..95
	Justification  string     `json:"justification"   yaml:"justification"`
}

// SignalTable is the full output of one render cycle.
// Rows keep the order of the configured universe.
type SignalTable struct {
	CycleID     string      `json:"cycle_id"     yaml:"cycle_id"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Sensitivity float64     `json:"sensitivity"  yaml:"sensitivity"`
	Rows        []SignalRow `json:"rows"         yaml:"rows"`
}

// Lookup returns the row for the named entity.
func (t *SignalTable) Lookup(name string) (SignalRow, bool) {
	if t == nil {
		return SignalRow{}, false
	}
	for _, r := range t.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return SignalRow{}, false
}

// Names returns the entity names in row order.
func (t *SignalTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		names = append(names, r.Name)
	}
	return names
}

// Counts tallies rows per signal type. Every type is present in the result.
func (t *SignalTable) Counts() map[SignalType]int {
	counts := map[SignalType]int{
		SignalBuy:  0,
		SignalHold: 0,
		SignalSell: 0,
	}
	if t == nil {
		return counts
	}
	for _, r := range t.Rows {
		counts[r.Signal]++
	}
	return counts
}
