package tracker

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/ledger"
	"github.com/fazecat/signalpilot/internal/marketdata"
	"github.com/fazecat/signalpilot/internal/types"
)

// Tracker runs the pending-entry confirmation sweep: expire stale rows,
// then promote waiting rows whose trigger price has been reached into
// the trade ledger.
type Tracker struct {
	Feed     marketdata.Feed
	Pending  *ledger.PendingStore
	Trades   *ledger.TradeStore
	StaleAge time.Duration
}

func New(feed marketdata.Feed, pending *ledger.PendingStore, trades *ledger.TradeStore, staleAge time.Duration) *Tracker {
	return &Tracker{Feed: feed, Pending: pending, Trades: trades, StaleAge: staleAge}
}

// Sweep is one confirmation cycle. The staleness sweep always runs
// before the trigger checks. Per-symbol failures (fetch errors,
// malformed rows) are logged and skipped; the row stays waiting.
// Returns how many entries were confirmed.
func (t *Tracker) Sweep(now time.Time) (int, error) {
	removed, err := t.Pending.SweepStale(now, t.StaleAge)
	if err != nil {
		return 0, fmt.Errorf("staleness sweep: %w", err)
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Dur("max_age", t.StaleAge).
			Msg("removed stale pending entries")
	}

	waiting, err := t.Pending.Waiting()
	if err != nil {
		return 0, fmt.Errorf("load pending entries: %w", err)
	}
	if len(waiting) == 0 {
		log.Info().Msg("no pending trades to evaluate")
		return 0, nil
	}

	entered := 0
	for _, entry := range waiting {
		if t.confirmOne(entry, now) {
			entered++
		}
	}
	return entered, nil
}

func (t *Tracker) confirmOne(entry types.PendingEntry, now time.Time) bool {
	trigger, err := decimal.NewFromString(entry.TriggerPrice)
	if err != nil {
		log.Warn().Str("symbol", entry.Symbol).Str("trigger", entry.TriggerPrice).
			Msg("could not parse trigger price, skipping row")
		return false
	}

	price, err := t.Feed.LatestPrice(entry.Symbol)
	if err != nil {
		// Fetch failure leaves the row waiting; it is never expired
		// because of an unavailable feed.
		log.Warn().Err(err).Str("symbol", entry.Symbol).Msg("no recent price, skipping")
		return false
	}
	current := decimal.NewFromFloat(price)

	triggered := current.GreaterThanOrEqual(trigger)
	if types.Direction(entry.Direction) == types.DirectionShort {
		triggered = current.LessThanOrEqual(trigger)
	}
	if !triggered {
		log.Info().Str("symbol", entry.Symbol).
			Str("current", current.StringFixed(2)).Str("trigger", trigger.StringFixed(2)).
			Msg("trigger not reached, still waiting")
		return false
	}

	// Entry price is the fetched price, not the trigger price.
	trade := types.Trade{
		Symbol:       entry.Symbol,
		EntryTime:    now.Format(time.RFC3339),
		EntryPrice:   current.StringFixed(2),
		Buffer:       "0.5%",
		Rationale:    entry.EntryCondition,
		Expectation:  fmt.Sprintf("%s trend continuation", entry.Trend),
		SignalTime:   entry.SignalTime,
		TrendAtEntry: entry.Trend,
	}
	if err := t.Trades.LogEntry(trade); err != nil {
		log.Error().Err(err).Str("symbol", entry.Symbol).Msg("failed to log trade entry")
		return false
	}

	updated, err := t.Pending.MarkEntered(entry.Symbol, trigger, current, now, "Auto-triggered by price breakout")
	if err != nil {
		log.Error().Err(err).Str("symbol", entry.Symbol).Msg("failed to update pending status")
		return false
	}
	if !updated {
		log.Warn().Str("symbol", entry.Symbol).Msg("no waiting row found to mark entered")
	}

	log.Info().Str("symbol", entry.Symbol).Str("price", current.StringFixed(2)).
		Msg("entry confirmed ✅")
	return true
}
