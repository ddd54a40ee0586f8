package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerState is the persistent bankroll bookkeeping. Balance is only ever
// mutated by the three ledger operations (close, withdrawal, bust).
type LedgerState struct {
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	TotalBusts     int64           `json:"total_busts"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
