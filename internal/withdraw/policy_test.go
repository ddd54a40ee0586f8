package withdraw

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProportional(t *testing.T) {
	p := Policy{Kind: Proportional, Fraction: decimal.NewFromFloat(0.5)}

	// Balance 1200 against initial 1000: half the gain comes out.
	got := p.For(decimal.NewFromInt(200))
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amount = %s, want 100", got)
	}
}

func TestProportional_NoGainNoOp(t *testing.T) {
	p := Policy{Kind: Proportional, Fraction: decimal.NewFromFloat(0.5)}
	for _, gain := range []int64{0, -200} {
		if got := p.For(decimal.NewFromInt(gain)); !got.IsZero() {
			t.Errorf("gain %d: amount = %s, want 0", gain, got)
		}
	}
}

func TestFixed_ClampsToGain(t *testing.T) {
	p := Policy{Kind: Fixed, Amount: decimal.NewFromInt(150)}

	if got := p.For(decimal.NewFromInt(200)); !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("amount = %s, want 150", got)
	}
	if got := p.For(decimal.NewFromInt(80)); !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("clamped amount = %s, want 80", got)
	}
}
