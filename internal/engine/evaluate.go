package engine

import (
	"github.com/shopspring/decimal"

	"CrashLadder/internal/ladder"
)

// verdict tags the result of evaluating one attempt against an outcome.
type verdict int

const (
	verdictEscalate verdict = iota
	verdictWinFull
	verdictWinDefended
)

// attemptPlan is the stake layout of one attempt, fixed before the outcome
// is seen. Simple tiers put the whole stake on the tier target; defensive
// tiers split it into a survival slot and a recovery slot.
type attemptPlan struct {
	tier    ladder.TierSpec
	attempt int // global attempt number within the cycle
	stake   decimal.Decimal
	low     decimal.Decimal // survival slot, zero for simple tiers
	high    decimal.Decimal // recovery slot, zero for simple tiers
}

func planAttempt(l *ladder.Ladder, snapshot decimal.Decimal, attempt int) (attemptPlan, error) {
	tier, err := l.TierFor(attempt)
	if err != nil {
		return attemptPlan{}, err
	}
	p := attemptPlan{tier: tier, attempt: attempt, stake: l.Stake(snapshot, attempt)}
	if tier.Defensive() {
		p.low, p.high = tier.Split(p.stake)
	}
	return p, nil
}

// evaluate is the pure transition function of the state machine: given the
// stake layout and the realized outcome, it returns the verdict and the
// gross payout returned to the bankroll. The caller turns payout into
// realized profit (payout - stake - cumulative loss) and dispatches on the
// verdict; a final-attempt escalation is ruin.
func evaluate(p attemptPlan, value float64) (verdict, decimal.Decimal) {
	if !p.tier.Defensive() {
		if value >= p.tier.Target {
			return verdictWinFull, p.stake.Mul(decimal.NewFromFloat(p.tier.Target))
		}
		return verdictEscalate, decimal.Zero
	}

	switch {
	case value >= p.tier.Target:
		// Both slots pay out: full recovery plus margin.
		payout := p.high.Mul(decimal.NewFromFloat(p.tier.Target)).
			Add(p.low.Mul(decimal.NewFromFloat(p.tier.LowTarget)))
		return verdictWinFull, payout
	case value >= p.tier.LowTarget:
		// Survival slot pays, recovery slot is forfeited. The cycle is
		// forcibly closed with a bounded loss instead of escalating.
		return verdictWinDefended, p.low.Mul(decimal.NewFromFloat(p.tier.LowTarget))
	default:
		return verdictEscalate, decimal.Zero
	}
}
