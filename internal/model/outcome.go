package model

import "time"

// Outcome is a single realized round result from the game, consumed in
// strict arrival order.
type Outcome struct {
	Seq   int64
	At    time.Time
	Value float64
}

// Low reports whether the outcome falls below the decision threshold.
func (o Outcome) Low(threshold float64) bool {
	return o.Value < threshold
}
