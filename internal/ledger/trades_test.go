package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/signalpilot/internal/types"
)

func tradeFixture(symbol, entryPrice string) types.Trade {
	return types.Trade{
		Symbol:       symbol,
		EntryTime:    "2026-03-02T09:52:00Z",
		EntryPrice:   entryPrice,
		Buffer:       "0.5%",
		Rationale:    "Bullish setup based on signal score 0.80",
		Expectation:  "Bullish trend continuation",
		SignalTime:   "2026-03-02T09:45:00Z",
		TrendAtEntry: "Bullish",
	}
}

func newTestTradeStore(t *testing.T) *TradeStore {
	t.Helper()
	return NewTradeStore(filepath.Join(t.TempDir(), "trades.csv"))
}

func TestLogEntryRoundTrip(t *testing.T) {
	ts := newTestTradeStore(t)
	entry := tradeFixture("AAPL", "189.12")
	require.NoError(t, ts.LogEntry(entry))

	trades, err := ts.All()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, entry, trades[0])
	assert.True(t, trades[0].Open())
}

func TestLogExitComputesChangeAndOutcome(t *testing.T) {
	ts := newTestTradeStore(t)
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "189.12")))

	now := time.Date(2026, 3, 2, 15, 55, 0, 0, time.UTC)
	closed, err := ts.LogExit("AAPL", decimal.RequireFromString("192.25"), "", "target reached", now)
	require.NoError(t, err)

	// (192.25 - 189.12) / 189.12 * 100 = 1.6550..., rounded to 1.66.
	assert.Equal(t, "1.66", closed.ChangePct)
	assert.Equal(t, types.OutcomeWin, closed.Outcome)
	assert.Equal(t, "192.25", closed.ExitPrice)
	assert.Equal(t, now.Format(time.RFC3339), closed.ExitTime)
	assert.Equal(t, "target reached", closed.Notes)
	assert.False(t, closed.Open())

	// The persisted row matches what was returned.
	trades, err := ts.All()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, closed, trades[0])
}

func TestLogExitOutcomeTable(t *testing.T) {
	cases := []struct {
		name      string
		entry     string
		exit      string
		wantPct   string
		wantLabel string
	}{
		{"win above half percent", "100.00", "101.00", "1.00", types.OutcomeWin},
		{"loss below half percent", "100.00", "99.00", "-1.00", types.OutcomeLoss},
		{"half percent exactly is neutral", "100.00", "100.50", "0.50", types.OutcomeNeutral},
		{"minus half percent exactly is neutral", "100.00", "99.50", "-0.50", types.OutcomeNeutral},
		{"flat exit is neutral", "100.00", "100.00", "0.00", types.OutcomeNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestTradeStore(t)
			require.NoError(t, ts.LogEntry(tradeFixture("AAPL", tc.entry)))

			closed, err := ts.LogExit("AAPL", decimal.RequireFromString(tc.exit), "", "", time.Now())
			require.NoError(t, err)
			assert.Equal(t, tc.wantPct, closed.ChangePct)
			assert.Equal(t, tc.wantLabel, closed.Outcome)
		})
	}
}

func TestLogExitExplicitOutcomeOverride(t *testing.T) {
	ts := newTestTradeStore(t)
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "100.00")))

	closed, err := ts.LogExit("AAPL", decimal.RequireFromString("101.00"), "Stopped", "manual stop", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Stopped", closed.Outcome)
	assert.Equal(t, "1.00", closed.ChangePct)
}

func TestLogExitClosesMostRecentOpenTrade(t *testing.T) {
	ts := newTestTradeStore(t)
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "100.00")))
	second := tradeFixture("AAPL", "110.00")
	second.EntryTime = "2026-03-03T09:52:00Z"
	require.NoError(t, ts.LogEntry(second))

	closed, err := ts.LogExit("AAPL", decimal.RequireFromString("111.10"), "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "110.00", closed.EntryPrice)

	trades, err := ts.All()
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.True(t, trades[0].Open())
	assert.False(t, trades[1].Open())
}

func TestLogExitNoOpenTrade(t *testing.T) {
	ts := newTestTradeStore(t)
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "189.12")))
	_, err := ts.LogExit("AAPL", decimal.RequireFromString("192.25"), "", "", time.Now())
	require.NoError(t, err)

	before, err := ts.All()
	require.NoError(t, err)

	// Exiting again finds nothing open and leaves the store unchanged.
	_, err = ts.LogExit("AAPL", decimal.RequireFromString("195.00"), "", "", time.Now())
	assert.ErrorIs(t, err, ErrNoOpenTrade)

	after, err := ts.All()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = ts.LogExit("MSFT", decimal.RequireFromString("10.00"), "", "", time.Now())
	assert.ErrorIs(t, err, ErrNoOpenTrade)
}

func TestLogExitBadEntryPrice(t *testing.T) {
	cases := []struct {
		name  string
		entry string
	}{
		{"non-numeric entry", "n/a"},
		{"blank entry", ""},
		{"zero entry", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestTradeStore(t)
			require.NoError(t, ts.LogEntry(tradeFixture("AAPL", tc.entry)))

			closed, err := ts.LogExit("AAPL", decimal.RequireFromString("192.25"), "", "", time.Now())
			require.NoError(t, err)
			assert.Empty(t, closed.ChangePct)
			assert.Equal(t, types.OutcomeError, closed.Outcome)
			assert.Equal(t, "192.25", closed.ExitPrice)
		})
	}
}

func TestBySymbol(t *testing.T) {
	ts := newTestTradeStore(t)
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "100.00")))
	require.NoError(t, ts.LogEntry(tradeFixture("MSFT", "400.00")))
	require.NoError(t, ts.LogEntry(tradeFixture("AAPL", "101.00")))

	aapl, err := ts.BySymbol("AAPL")
	require.NoError(t, err)
	require.Len(t, aapl, 2)
	assert.Equal(t, "100.00", aapl[0].EntryPrice)
	assert.Equal(t, "101.00", aapl[1].EntryPrice)

	none, err := ts.BySymbol("TSLA")
	require.NoError(t, err)
	assert.Empty(t, none)
}
