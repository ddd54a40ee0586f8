package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CloseResult tags how a cycle ended.
type CloseResult string

const (
	CloseWin      CloseResult = "WIN"
	CloseDefended CloseResult = "DEFENDED"
)

// CycleOpened is emitted when a run of consecutive low outcomes reaches the
// trigger length and a staking cycle begins.
type CycleOpened struct {
	CycleIndex   int64
	OutcomeIndex int64
	At           time.Time
	Snapshot     decimal.Decimal
}

// CycleClosed is emitted when an open cycle resolves without ruin.
type CycleClosed struct {
	CycleIndex   int64
	OutcomeIndex int64
	At           time.Time
	Result       CloseResult
	Tier         int
	Attempt      int // global attempt number within the cycle
	Outcome      float64
	Staked       decimal.Decimal // total wagered over the cycle, final attempt included
	Profit       decimal.Decimal // negative for defended closes
	Balance      decimal.Decimal // balance after the close was applied
}

// BustOccurred is emitted when every tier and attempt of a cycle is
// exhausted without meeting any target. Never dropped.
type BustOccurred struct {
	CycleIndex    int64
	OutcomeIndex  int64
	At            time.Time
	Tier          int
	Attempt       int
	BalanceBefore decimal.Decimal
	Loss          decimal.Decimal
	Balance       decimal.Decimal // balance after the configured bust policy ran
}

// WithdrawalApplied is emitted when the withdrawal scheduler skims gain
// out of the balance.
type WithdrawalApplied struct {
	OutcomeIndex   int64
	At             time.Time
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	TotalWithdrawn decimal.Decimal
}
