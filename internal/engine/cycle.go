package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// cycle is the transient state of one open staking cycle. Every stake in
// the cycle is sized from the snapshot taken at open, so the cycle's
// internal economics stay self-consistent regardless of what the live
// balance does afterwards.
type cycle struct {
	index      int64
	openedSeq  int64
	openedAt   time.Time
	snapshot   decimal.Decimal
	attempt    int             // current global attempt, 1-based
	cumulative decimal.Decimal // staked and lost so far, non-decreasing
}
