package ledger

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"CrashLadder/internal/model"
)

// BustPolicy selects what happens to the balance when a cycle ruins.
type BustPolicy string

const (
	// PolicyReset restores the balance to the configured reset value.
	PolicyReset BustPolicy = "reset"
	// PolicyHalt realizes the loss and leaves the balance where it lands;
	// the caller is expected to stop the simulation.
	PolicyHalt BustPolicy = "halt"
)

// Ledger owns the bankroll. The balance is mutated exclusively by
// ApplyClose, ApplyWithdrawal and ApplyBust; everything else reads copies.
type Ledger struct {
	mu       sync.Mutex
	state    *model.LedgerState
	reset    decimal.Decimal
	policy   BustPolicy
	filePath string
}

// New creates a Ledger, resuming from the state file when one is configured
// and present, and starting fresh otherwise.
func New(initial, reset decimal.Decimal, policy BustPolicy, filePath string) (*Ledger, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.InitialBalance.IsZero() {
		state.InitialBalance = initial
		state.Balance = initial
	}
	l := &Ledger{state: state, reset: reset, policy: policy, filePath: filePath}
	if err := l.save(); err != nil {
		return nil, err
	}
	return l, nil
}

// State returns a copy of the current ledger state.
func (l *Ledger) State() model.LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.state
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Balance
}

// Gain returns balance minus initial balance; negative while under water.
func (l *Ledger) Gain() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Balance.Sub(l.state.InitialBalance)
}

// ApplyClose applies the realized profit or loss of a closed cycle and
// returns the new balance. Profit compounds: the next cycle's snapshot is
// taken from the balance this produces.
func (l *Ledger) ApplyClose(profit decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Balance = l.state.Balance.Add(profit)
	if err := l.save(); err != nil {
		log.Error().Err(err).Msg("save ledger state after close")
	}
	return l.state.Balance
}

// ApplyWithdrawal moves amount out of the balance into the withdrawn
// accumulator. The amount must not dip into the principal; callers clamp to
// the available gain before calling.
func (l *Ledger) ApplyWithdrawal(amount decimal.Decimal) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount.IsNegative() {
		return l.state.Balance, fmt.Errorf("ledger: negative withdrawal %s", amount)
	}
	if amount.GreaterThan(l.state.Balance.Sub(l.state.InitialBalance)) {
		return l.state.Balance, fmt.Errorf("ledger: withdrawal %s exceeds gain %s",
			amount, l.state.Balance.Sub(l.state.InitialBalance))
	}
	l.state.Balance = l.state.Balance.Sub(amount)
	l.state.TotalWithdrawn = l.state.TotalWithdrawn.Add(amount)
	if err := l.save(); err != nil {
		log.Error().Err(err).Msg("save ledger state after withdrawal")
	}
	return l.state.Balance, nil
}

// ApplyBust records a ruin and runs the configured policy: reset restores
// the reset balance, halt realizes the loss. Returns the new balance.
func (l *Ledger) ApplyBust(loss decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.TotalBusts++
	switch l.policy {
	case PolicyHalt:
		l.state.Balance = l.state.Balance.Sub(loss)
	default:
		l.state.Balance = l.reset
	}
	if err := l.save(); err != nil {
		log.Error().Err(err).Msg("save ledger state after bust")
	}
	return l.state.Balance
}

func (l *Ledger) save() error {
	return SaveState(l.filePath, l.state)
}
