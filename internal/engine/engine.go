// Package engine implements the staking cycle state machine: it consumes
// outcomes one at a time, opens cycles on trigger runs, escalates attempts
// through the tier ladder, and settles every close through the ledger.
package engine

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"CrashLadder/internal/ladder"
	"CrashLadder/internal/ledger"
	"CrashLadder/internal/model"
	"CrashLadder/internal/recorder"
	"CrashLadder/internal/withdraw"
)

// ErrHalted is returned once the simulation has permanently stopped, either
// by the halt bust policy or by the balance reaching zero.
var ErrHalted = errors.New("engine: simulation halted")

// Options wires an Engine.
type Options struct {
	Threshold      float64
	TriggerLength  int
	Ladder         *ladder.Ladder
	Ledger         *ledger.Ledger
	Policy         withdraw.Policy
	PeriodOutcomes int64 // 0 disables the outcome-count withdrawal boundary
	HaltOnBust     bool
	Recorder       recorder.Recorder
}

// Engine processes the outcome stream. Exactly one cycle is open at any
// time; all processing is serialized, so replaying the same stream against
// the same configuration yields the identical event stream.
type Engine struct {
	mu sync.Mutex

	threshold      float64
	ladder         *ladder.Ladder
	ledger         *ledger.Ledger
	policy         withdraw.Policy
	periodOutcomes int64
	haltOnBust     bool
	rec            recorder.Recorder

	trig     trigger
	cur      *cycle
	cycles   int64 // cycles opened so far
	consumed int64 // outcomes consumed so far
	deferred bool  // a withdrawal boundary fell while a cycle was open
	halted   bool
}

// New creates an Engine from validated options.
func New(opts Options) *Engine {
	return &Engine{
		threshold:      opts.Threshold,
		ladder:         opts.Ladder,
		ledger:         opts.Ledger,
		policy:         opts.Policy,
		periodOutcomes: opts.PeriodOutcomes,
		haltOnBust:     opts.HaltOnBust,
		rec:            opts.Recorder,
		trig:           trigger{threshold: opts.Threshold, length: opts.TriggerLength},
	}
}

// Halted reports whether the simulation has permanently stopped.
func (e *Engine) Halted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted
}

// Consumed returns the number of outcomes processed so far.
func (e *Engine) Consumed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumed
}

// ProcessOutcome advances the state machine by exactly one outcome.
func (e *Engine) ProcessOutcome(o model.Outcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.halted {
		return ErrHalted
	}
	e.consumed++

	if e.cur != nil {
		if err := e.stepCycle(o); err != nil {
			return err
		}
	} else if e.trig.observe(o) {
		e.openCycle(o)
	}

	// Outcome-count boundary. Boundaries that fall mid-cycle are deferred
	// to the close; several boundaries inside one cycle collapse into a
	// single withdrawal.
	if e.periodOutcomes > 0 && e.consumed%e.periodOutcomes == 0 {
		e.boundary(o)
	}
	return nil
}

// RequestBoundary marks a wall-clock withdrawal boundary (the daily cron in
// paced runs). Safe to call from another goroutine.
func (e *Engine) RequestBoundary(o model.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.halted {
		return
	}
	e.boundary(o)
}

func (e *Engine) boundary(o model.Outcome) {
	if e.cur != nil {
		e.deferred = true
		return
	}
	e.withdraw(o)
}

func (e *Engine) withdraw(o model.Outcome) {
	amount := e.policy.For(e.ledger.Gain())
	if !amount.IsPositive() {
		return
	}
	balance, err := e.ledger.ApplyWithdrawal(amount)
	if err != nil {
		log.Error().Err(err).Msg("apply withdrawal")
		return
	}
	state := e.ledger.State()
	evt := &model.WithdrawalApplied{
		OutcomeIndex:   o.Seq,
		At:             o.At,
		Amount:         amount,
		Balance:        balance,
		TotalWithdrawn: state.TotalWithdrawn,
	}
	if err := e.rec.RecordWithdrawal(evt); err != nil {
		log.Error().Err(err).Msg("record withdrawal")
	}
	log.Info().
		Int64("outcome", o.Seq).
		Str("amount", amount.StringFixed(2)).
		Str("balance", balance.StringFixed(2)).
		Msg("withdrawal applied")
}

func (e *Engine) openCycle(o model.Outcome) {
	e.cycles++
	e.cur = &cycle{
		index:      e.cycles,
		openedSeq:  o.Seq,
		openedAt:   o.At,
		snapshot:   e.ledger.Balance(),
		attempt:    1,
		cumulative: decimal.Zero,
	}
	evt := &model.CycleOpened{
		CycleIndex:   e.cur.index,
		OutcomeIndex: o.Seq,
		At:           o.At,
		Snapshot:     e.cur.snapshot,
	}
	if err := e.rec.RecordOpen(evt); err != nil {
		log.Error().Err(err).Msg("record cycle open")
	}
	log.Debug().
		Int64("cycle", e.cur.index).
		Str("snapshot", e.cur.snapshot.StringFixed(2)).
		Msg("cycle opened")
}

func (e *Engine) stepCycle(o model.Outcome) error {
	c := e.cur
	plan, err := planAttempt(e.ladder, c.snapshot, c.attempt)
	if err != nil {
		return err
	}

	v, payout := evaluate(plan, o.Value)
	switch v {
	case verdictWinFull, verdictWinDefended:
		e.closeCycle(o, plan, v, payout)
	case verdictEscalate:
		c.cumulative = c.cumulative.Add(plan.stake)
		if c.attempt >= e.ladder.Depth() {
			e.bust(o, plan)
			return nil
		}
		c.attempt++
	}
	if e.cur == nil && e.deferred && !e.halted {
		e.deferred = false
		e.withdraw(o)
	}
	return nil
}

func (e *Engine) closeCycle(o model.Outcome, plan attemptPlan, v verdict, payout decimal.Decimal) {
	c := e.cur
	profit := payout.Sub(plan.stake).Sub(c.cumulative)
	balance := e.ledger.ApplyClose(profit)

	result := model.CloseWin
	if v == verdictWinDefended {
		result = model.CloseDefended
	}
	evt := &model.CycleClosed{
		CycleIndex:   c.index,
		OutcomeIndex: o.Seq,
		At:           o.At,
		Result:       result,
		Tier:         plan.tier.Index,
		Attempt:      plan.attempt,
		Outcome:      o.Value,
		Staked:       c.cumulative.Add(plan.stake),
		Profit:       profit,
		Balance:      balance,
	}
	if err := e.rec.RecordClose(evt); err != nil {
		log.Error().Err(err).Msg("record cycle close")
	}
	log.Info().
		Int64("cycle", c.index).
		Str("result", string(result)).
		Int("tier", plan.tier.Index).
		Int("attempt", plan.attempt).
		Str("profit", profit.StringFixed(2)).
		Str("balance", balance.StringFixed(2)).
		Msg("cycle closed")

	e.cur = nil
	e.trig.reset()
	if balance.Sign() <= 0 {
		e.halted = true
	}
}

func (e *Engine) bust(o model.Outcome, plan attemptPlan) {
	c := e.cur
	before := e.ledger.Balance()
	// The whole doubling progression was lost: the amount at risk is the
	// snapshot itself.
	loss := c.snapshot
	balance := e.ledger.ApplyBust(loss)

	evt := &model.BustOccurred{
		CycleIndex:    c.index,
		OutcomeIndex:  o.Seq,
		At:            o.At,
		Tier:          plan.tier.Index,
		Attempt:       plan.attempt,
		BalanceBefore: before,
		Loss:          loss,
		Balance:       balance,
	}
	if err := e.rec.RecordBust(evt); err != nil {
		log.Error().Err(err).Msg("record bust")
	}
	log.Warn().
		Int64("cycle", c.index).
		Int("tier", plan.tier.Index).
		Int("attempt", plan.attempt).
		Str("loss", loss.StringFixed(2)).
		Str("balance", balance.StringFixed(2)).
		Msg("bust")

	e.cur = nil
	e.trig.reset()
	if e.haltOnBust || balance.Sign() <= 0 {
		e.halted = true
		return
	}
	if e.deferred {
		e.deferred = false
		e.withdraw(o)
	}
}
