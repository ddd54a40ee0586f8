// Package report reconstructs session statistics purely from the recorded
// event stream; it never inspects engine internals.
package report

import (
	"sync"

	"github.com/shopspring/decimal"

	"CrashLadder/internal/model"
)

// TierAttempt keys the win distribution.
type TierAttempt struct {
	Tier    int
	Attempt int
}

// Summary is the aggregate view of one simulation run.
type Summary struct {
	CyclesOpened   int64
	Wins           int64
	Defended       int64
	Busts          int64
	WinsByDepth    map[TierAttempt]int64
	TotalProfit    decimal.Decimal // sum of positive close profits
	TotalGivenBack decimal.Decimal // sum of defended-close losses (as a positive figure)
	TotalWithdrawn decimal.Decimal
	FinalBalance   decimal.Decimal
	PeakBalance    decimal.Decimal
	MaxDrawdown    decimal.Decimal
	BustGaps       []int64 // outcomes elapsed between consecutive busts
	LastOutcome    int64
}

// Aggregator implements recorder.Recorder and folds the stream into a
// Summary as it arrives.
type Aggregator struct {
	mu       sync.Mutex
	s        Summary
	lastBust int64
}

func NewAggregator() *Aggregator {
	return &Aggregator{s: Summary{WinsByDepth: make(map[TierAttempt]int64)}}
}

// Summary returns a copy of the aggregate so far.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.s
	out.WinsByDepth = make(map[TierAttempt]int64, len(a.s.WinsByDepth))
	for k, v := range a.s.WinsByDepth {
		out.WinsByDepth[k] = v
	}
	out.BustGaps = append([]int64(nil), a.s.BustGaps...)
	return out
}

func (a *Aggregator) RecordOpen(evt *model.CycleOpened) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s.CyclesOpened++
	a.s.LastOutcome = evt.OutcomeIndex
	return nil
}

func (a *Aggregator) RecordClose(evt *model.CycleClosed) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch evt.Result {
	case model.CloseDefended:
		a.s.Defended++
		a.s.TotalGivenBack = a.s.TotalGivenBack.Add(evt.Profit.Neg())
	default:
		a.s.Wins++
		a.s.WinsByDepth[TierAttempt{Tier: evt.Tier, Attempt: evt.Attempt}]++
		a.s.TotalProfit = a.s.TotalProfit.Add(evt.Profit)
	}
	a.track(evt.Balance, evt.OutcomeIndex)
	return nil
}

func (a *Aggregator) RecordBust(evt *model.BustOccurred) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s.Busts++
	if a.lastBust > 0 {
		a.s.BustGaps = append(a.s.BustGaps, evt.OutcomeIndex-a.lastBust)
	} else {
		a.s.BustGaps = append(a.s.BustGaps, evt.OutcomeIndex)
	}
	a.lastBust = evt.OutcomeIndex
	a.track(evt.Balance, evt.OutcomeIndex)
	return nil
}

func (a *Aggregator) RecordWithdrawal(evt *model.WithdrawalApplied) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s.TotalWithdrawn = evt.TotalWithdrawn
	a.track(evt.Balance, evt.OutcomeIndex)
	return nil
}

func (a *Aggregator) Close() error { return nil }

func (a *Aggregator) track(balance decimal.Decimal, outcome int64) {
	a.s.FinalBalance = balance
	if outcome > a.s.LastOutcome {
		a.s.LastOutcome = outcome
	}
	if balance.GreaterThan(a.s.PeakBalance) {
		a.s.PeakBalance = balance
	}
	if dd := a.s.PeakBalance.Sub(balance); dd.GreaterThan(a.s.MaxDrawdown) {
		a.s.MaxDrawdown = dd
	}
}
