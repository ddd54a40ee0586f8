package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

func money(d interface{ InexactFloat64() float64 }) string {
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

// Format renders a session summary for the terminal.
func Format(s Summary) string {
	var b strings.Builder

	b.WriteString("=== session summary ===\n")
	b.WriteString(fmt.Sprintf("outcomes consumed:  %s\n", humanize.Comma(s.LastOutcome)))
	b.WriteString(fmt.Sprintf("cycles opened:      %d\n", s.CyclesOpened))
	b.WriteString(fmt.Sprintf("wins / defended:    %d / %d\n", s.Wins, s.Defended))
	b.WriteString(fmt.Sprintf("busts:              %d\n", s.Busts))

	if len(s.WinsByDepth) > 0 {
		b.WriteString("\nwin distribution (tier/attempt):\n")
		keys := make([]TierAttempt, 0, len(s.WinsByDepth))
		for k := range s.WinsByDepth {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Tier != keys[j].Tier {
				return keys[i].Tier < keys[j].Tier
			}
			return keys[i].Attempt < keys[j].Attempt
		})
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  tier %d attempt %d: %d\n", k.Tier, k.Attempt, s.WinsByDepth[k]))
		}
	}

	if len(s.BustGaps) > 0 {
		var sum int64
		for _, g := range s.BustGaps {
			sum += g
		}
		b.WriteString(fmt.Sprintf("\nmean outcomes between busts: %d\n", sum/int64(len(s.BustGaps))))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("gross win profit:   %s\n", money(s.TotalProfit)))
	b.WriteString(fmt.Sprintf("defended give-back: %s\n", money(s.TotalGivenBack)))
	b.WriteString(fmt.Sprintf("total withdrawn:    %s\n", money(s.TotalWithdrawn)))
	b.WriteString(fmt.Sprintf("peak balance:       %s\n", money(s.PeakBalance)))
	b.WriteString(fmt.Sprintf("max drawdown:       %s\n", money(s.MaxDrawdown)))
	b.WriteString(fmt.Sprintf("final balance:      %s\n", money(s.FinalBalance)))

	return b.String()
}
