package notify

import (
	"fmt"
	"strings"

	"github.com/fazecat/signalpilot/internal/signals"
	"github.com/fazecat/signalpilot/internal/types"
)

// Formatting lives here, away from the decision functions: the scorer
// and rule engine return structured results and never build chat text.

func trendEmoji(bias types.Bias) string {
	switch bias {
	case types.BiasBullish:
		return "📈"
	case types.BiasBearish:
		return "📉"
	default:
		return "⚖️"
	}
}

func yesNo(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

// FormatAlert renders the per-symbol alert message with the signal
// breakdown.
func FormatAlert(symbol string, bias types.Bias, snap *signals.SignalSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s**: **%s**\n", trendEmoji(bias), symbol, bias)
	fmt.Fprintf(&b, "- EMA: %s\n", yesNo(snap.EMABullish, "✔️", "❌"))
	fmt.Fprintf(&b, "- VWAP: %s\n", yesNo(snap.VWAPAbove, "Above", "Below"))
	fmt.Fprintf(&b, "- MACD: %s\n", yesNo(snap.MACDPositive, "Positive", "Negative"))
	fmt.Fprintf(&b, "- RSI: %.2f\n", snap.RSI)
	fmt.Fprintf(&b, "- Volume Spike: %s", yesNo(snap.VolumeSpike, "🚀", "—"))
	return b.String()
}

// FormatStatus renders the latest prediction plus trade state for one
// symbol, for the status surface.
func FormatStatus(pred types.PredictionRecord, trade *types.Trade) string {
	lines := []string{
		fmt.Sprintf("📊 **%s Status**", pred.Symbol),
		fmt.Sprintf("• Trend: **%s**", pred.Trend),
		fmt.Sprintf("• RSI: %s", pred.RSI),
		fmt.Sprintf("• MACD: %s", pred.MACD),
		fmt.Sprintf("• EMA: %s", pred.EMA),
		fmt.Sprintf("• VWAP: %s", pred.VWAPSignal),
		fmt.Sprintf("• Volume Spike: %s", yesNo(pred.VolumeSpike == "true", "🚀", "—")),
		fmt.Sprintf("• Signal Time: `%s`", pred.Timestamp),
	}

	if trade != nil {
		lines = append(lines, fmt.Sprintf("💼 Last Trade: `%s` at `%s`", trade.EntryTime, trade.EntryPrice))
		if trade.Open() {
			lines = append(lines, "⏳ Trade still open.")
		} else {
			lines = append(lines, fmt.Sprintf("➡️ Exit: `%s` at `%s` (%s)", trade.ExitTime, trade.ExitPrice, trade.Outcome))
		}
	}

	return strings.Join(lines, "\n")
}
