// Package withdraw implements the periodic gain-skimming policy.
package withdraw

import "github.com/shopspring/decimal"

// Kind selects how the withdrawal amount is derived from the gain.
type Kind string

const (
	Proportional Kind = "proportional"
	Fixed        Kind = "fixed"
)

// Policy computes withdrawal amounts. It is stateless; the engine owns the
// period counter and applies the result through the ledger.
type Policy struct {
	Kind     Kind
	Fraction decimal.Decimal // proportional: share of the gain to skim
	Amount   decimal.Decimal // fixed: amount per period, clamped to the gain
}

// For returns the amount to withdraw for the given unrealized gain. Zero or
// negative gain yields zero: principal is never touched, by clamp rather
// than by error.
func (p Policy) For(gain decimal.Decimal) decimal.Decimal {
	if !gain.IsPositive() {
		return decimal.Zero
	}
	switch p.Kind {
	case Fixed:
		if p.Amount.GreaterThan(gain) {
			return gain
		}
		return p.Amount
	default:
		return gain.Mul(p.Fraction)
	}
}
