package report

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"CrashLadder/internal/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestAggregatorFoldsStream(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	a := NewAggregator()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	must(a.RecordOpen(&model.CycleOpened{CycleIndex: 1, OutcomeIndex: 5, At: at, Snapshot: dec(1000)}))
	must(a.RecordClose(&model.CycleClosed{
		CycleIndex: 1, OutcomeIndex: 6, Result: model.CloseWin,
		Tier: 1, Attempt: 1, Profit: dec(330), Balance: dec(1330),
	}))
	must(a.RecordOpen(&model.CycleOpened{CycleIndex: 2, OutcomeIndex: 11, Snapshot: dec(1330)}))
	must(a.RecordClose(&model.CycleClosed{
		CycleIndex: 2, OutcomeIndex: 13, Result: model.CloseDefended,
		Tier: 2, Attempt: 2, Profit: dec(-190), Balance: dec(1140),
	}))
	must(a.RecordOpen(&model.CycleOpened{CycleIndex: 3, OutcomeIndex: 20, Snapshot: dec(1140)}))
	must(a.RecordBust(&model.BustOccurred{
		CycleIndex: 3, OutcomeIndex: 24, Tier: 2, Attempt: 11,
		BalanceBefore: dec(1140), Loss: dec(1140), Balance: dec(1000),
	}))
	must(a.RecordOpen(&model.CycleOpened{CycleIndex: 4, OutcomeIndex: 30, Snapshot: dec(1000)}))
	must(a.RecordClose(&model.CycleClosed{
		CycleIndex: 4, OutcomeIndex: 32, Result: model.CloseWin,
		Tier: 1, Attempt: 2, Profit: dec(320), Balance: dec(1320),
	}))
	must(a.RecordWithdrawal(&model.WithdrawalApplied{
		OutcomeIndex: 32, Amount: dec(160), Balance: dec(1160), TotalWithdrawn: dec(160),
	}))
	must(a.RecordBust(&model.BustOccurred{
		CycleIndex: 5, OutcomeIndex: 60, Tier: 2, Attempt: 11,
		BalanceBefore: dec(1160), Loss: dec(1160), Balance: dec(1000),
	}))

	s := a.Summary()
	if s.CyclesOpened != 4 || s.Wins != 2 || s.Defended != 1 || s.Busts != 2 {
		t.Errorf("counts = %d/%d/%d/%d, want 4 opened, 2 wins, 1 defended, 2 busts",
			s.CyclesOpened, s.Wins, s.Defended, s.Busts)
	}
	if !s.TotalProfit.Equal(dec(650)) {
		t.Errorf("total profit = %s, want 650", s.TotalProfit)
	}
	if !s.TotalGivenBack.Equal(dec(190)) {
		t.Errorf("given back = %s, want 190", s.TotalGivenBack)
	}
	if !s.TotalWithdrawn.Equal(dec(160)) {
		t.Errorf("withdrawn = %s, want 160", s.TotalWithdrawn)
	}
	if !s.FinalBalance.Equal(dec(1000)) {
		t.Errorf("final balance = %s, want 1000", s.FinalBalance)
	}
	if !s.PeakBalance.Equal(dec(1330)) {
		t.Errorf("peak = %s, want 1330", s.PeakBalance)
	}
	// Deepest trough after the peak is 1000.
	if !s.MaxDrawdown.Equal(dec(330)) {
		t.Errorf("drawdown = %s, want 330", s.MaxDrawdown)
	}
	wantDepth := map[TierAttempt]int64{
		{Tier: 1, Attempt: 1}: 1,
		{Tier: 1, Attempt: 2}: 1,
	}
	if !reflect.DeepEqual(s.WinsByDepth, wantDepth) {
		t.Errorf("wins by depth = %v, want %v", s.WinsByDepth, wantDepth)
	}
	if !reflect.DeepEqual(s.BustGaps, []int64{24, 36}) {
		t.Errorf("bust gaps = %v, want [24 36]", s.BustGaps)
	}
	if s.LastOutcome != 60 {
		t.Errorf("last outcome = %d, want 60", s.LastOutcome)
	}
}

func TestSummaryCopyIsolation(t *testing.T) {
	a := NewAggregator()
	if err := a.RecordClose(&model.CycleClosed{Result: model.CloseWin, Tier: 1, Attempt: 1, Balance: dec(1100)}); err != nil {
		t.Fatalf("record: %v", err)
	}
	s := a.Summary()
	s.WinsByDepth[TierAttempt{Tier: 9, Attempt: 9}] = 99

	again := a.Summary()
	if _, ok := again.WinsByDepth[TierAttempt{Tier: 9, Attempt: 9}]; ok {
		t.Error("mutating a returned Summary leaked into the aggregator")
	}
}

func TestFormat(t *testing.T) {
	a := NewAggregator()
	_ = a.RecordOpen(&model.CycleOpened{CycleIndex: 1, OutcomeIndex: 5, Snapshot: dec(1000)})
	_ = a.RecordClose(&model.CycleClosed{
		CycleIndex: 1, OutcomeIndex: 6, Result: model.CloseWin,
		Tier: 1, Attempt: 1, Profit: dec(330), Balance: dec(1330),
	})

	out := Format(a.Summary())
	for _, want := range []string{"1,330", "cycles", "wins"} {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(want)) {
			t.Errorf("formatted summary missing %q:\n%s", want, out)
		}
	}
}
