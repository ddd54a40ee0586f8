package engine

import "CrashLadder/internal/model"

// trigger counts consecutive low outcomes and fires once when the run
// reaches the configured length. It never re-triggers on overlapping runs:
// firing resets the counter, and the engine keeps it idle while a cycle is
// open, resetting it again the instant the cycle closes.
type trigger struct {
	threshold float64
	length    int
	run       int
}

// observe consumes one outcome and reports whether a cycle should open.
func (t *trigger) observe(o model.Outcome) bool {
	if !o.Low(t.threshold) {
		t.run = 0
		return false
	}
	t.run++
	if t.run >= t.length {
		t.run = 0
		return true
	}
	return false
}

func (t *trigger) reset() { t.run = 0 }
