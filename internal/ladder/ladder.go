package ladder

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TierSpec is one escalation step of the staking ladder.
//
// Attempts is the cumulative attempt budget from cycle open: a tier covers
// every global attempt above the previous tier's budget up to its own. The
// divisor must equal 2^Attempts - 1 so that the doubling progression staked
// through this tier is a power-of-two partition of the divisor; that is what
// guarantees a win at any depth recovers all prior losses of the cycle.
type TierSpec struct {
	Index       int
	Divisor     int64
	Attempts    int
	Target      float64
	LowTarget   float64 // defensive survival target; 0 means a simple tier
	LowFraction float64 // share of the nominal stake on the survival slot
}

// Defensive reports whether this tier splits its stake across two slots.
func (t TierSpec) Defensive() bool { return t.LowTarget > 0 }

// Ladder is the validated, ordered list of tiers for one configuration.
type Ladder struct {
	tiers   []TierSpec
	divisor decimal.Decimal // deepest tier's divisor, the unit base
}

// maxDepth keeps 1<<attempts inside int64.
const maxDepth = 62

// New validates the tier list and builds a Ladder.
func New(tiers []TierSpec) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("ladder: at least one tier is required")
	}
	prev := 0
	for i := range tiers {
		t := &tiers[i]
		t.Index = i + 1
		if t.Attempts <= prev {
			return nil, fmt.Errorf("ladder: tier %d attempts %d must exceed tier %d attempts %d",
				t.Index, t.Attempts, t.Index-1, prev)
		}
		if t.Attempts > maxDepth {
			return nil, fmt.Errorf("ladder: tier %d attempts %d exceeds maximum depth %d", t.Index, t.Attempts, maxDepth)
		}
		if want := int64(1)<<t.Attempts - 1; t.Divisor != want {
			return nil, fmt.Errorf("ladder: tier %d divisor %d does not partition %d attempts (want %d)",
				t.Index, t.Divisor, t.Attempts, want)
		}
		if t.Target <= 1 {
			return nil, fmt.Errorf("ladder: tier %d target %.4f must exceed 1", t.Index, t.Target)
		}
		if t.Defensive() {
			if i == len(tiers)-1 {
				return nil, fmt.Errorf("ladder: tier %d is the deepest tier and must not defend", t.Index)
			}
			if t.LowFraction <= 0 || t.LowFraction >= 1 {
				return nil, fmt.Errorf("ladder: tier %d low_fraction %.4f must be inside (0,1)", t.Index, t.LowFraction)
			}
			if t.LowTarget <= 1 || t.LowTarget >= t.Target {
				return nil, fmt.Errorf("ladder: tier %d low_target %.4f must be inside (1, %.4f)", t.Index, t.LowTarget, t.Target)
			}
			if (1-t.LowFraction)*t.Target <= 1 {
				return nil, fmt.Errorf("ladder: tier %d recovery slot %.4f at target %.4f cannot cover its own stake",
					t.Index, 1-t.LowFraction, t.Target)
			}
		}
		prev = t.Attempts
	}
	deepest := tiers[len(tiers)-1]
	return &Ladder{tiers: tiers, divisor: decimal.NewFromInt(deepest.Divisor)}, nil
}

// Depth returns the total number of attempts a cycle may take.
func (l *Ladder) Depth() int { return l.tiers[len(l.tiers)-1].Attempts }

// Tiers returns the validated tier list.
func (l *Ladder) Tiers() []TierSpec { return l.tiers }

// TierFor returns the tier covering the given global attempt number (1-based).
func (l *Ladder) TierFor(attempt int) (TierSpec, error) {
	if attempt < 1 || attempt > l.Depth() {
		return TierSpec{}, fmt.Errorf("ladder: attempt %d outside 1..%d", attempt, l.Depth())
	}
	for _, t := range l.tiers {
		if attempt <= t.Attempts {
			return t, nil
		}
	}
	return TierSpec{}, fmt.Errorf("ladder: attempt %d not covered", attempt)
}

// Unit returns the base stake unit for a cycle: the balance snapshot divided
// by the deepest tier's divisor.
func (l *Ladder) Unit(snapshot decimal.Decimal) decimal.Decimal {
	return snapshot.Div(l.divisor)
}

// Stake returns the nominal amount risked at the given global attempt:
// snapshot * 2^(attempt-1) / deepest divisor. The full progression sums to
// exactly the snapshot, so ruin risks the snapshot and nothing more.
func (l *Ladder) Stake(snapshot decimal.Decimal, attempt int) decimal.Decimal {
	units := decimal.NewFromInt(int64(1) << (attempt - 1))
	return snapshot.Mul(units).Div(l.divisor)
}

// Split divides a defensive tier's nominal stake into its survival and
// recovery slots. The slots always sum to the nominal stake.
func (t TierSpec) Split(stake decimal.Decimal) (low, high decimal.Decimal) {
	low = stake.Mul(decimal.NewFromFloat(t.LowFraction))
	high = stake.Sub(low)
	return low, high
}
