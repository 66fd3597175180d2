package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/config"
	"github.com/fazecat/signalpilot/internal/ledger"
	"github.com/fazecat/signalpilot/internal/marketclock"
	"github.com/fazecat/signalpilot/internal/marketdata"
	"github.com/fazecat/signalpilot/internal/notify"
	"github.com/fazecat/signalpilot/internal/signals"
	"github.com/fazecat/signalpilot/internal/strategy"
	"github.com/fazecat/signalpilot/internal/types"
)

// Runner wires one evaluation pass: fetch bars for each watched symbol,
// evaluate and score signals, queue breakout entries, persist the audit
// trail, and notify. The watchlist loop is fault-isolated: one symbol
// failing never aborts the rest.
type Runner struct {
	Cfg         *config.Config
	Feed        marketdata.Feed
	Pending     *ledger.PendingStore
	Trades      *ledger.TradeStore
	Predictions *ledger.PredictionStore
	Alerts      *notify.Queue
	Evaluator   *signals.Evaluator
	Engine      *strategy.Engine
}

func NewRunner(cfg *config.Config, feed marketdata.Feed, alerts *notify.Queue) *Runner {
	return &Runner{
		Cfg:         cfg,
		Feed:        feed,
		Pending:     ledger.NewPendingStore(cfg.Paths.PendingEntries),
		Trades:      ledger.NewTradeStore(cfg.Paths.Trades),
		Predictions: ledger.NewPredictionStore(cfg.Paths.Predictions),
		Alerts:      alerts,
		Evaluator:   signals.NewEvaluator(),
		Engine:      strategy.NewEngine(cfg.RuleConfig()),
	}
}

// Run performs one evaluation pass. Individual symbol failures are
// logged and skipped; only setup-level failures (bad config, unreadable
// watchlist) return an error.
func (r *Runner) Run(ctx context.Context, interval, period string, force bool) error {
	now := time.Now()

	if dropped, err := r.Pending.CleanMalformed(); err != nil {
		log.Error().Err(err).Msg("failed to clean malformed pending entries")
	} else if dropped > 0 {
		log.Info().Int("dropped", dropped).Msg("cleaned malformed entries from pending queue")
	}

	staleAge := time.Duration(r.Cfg.Pending.StaleAfterDays) * 24 * time.Hour
	if removed, err := r.Pending.SweepStale(now, staleAge); err != nil {
		log.Error().Err(err).Msg("failed to clean old pending entries")
	} else if removed > 0 {
		log.Info().Int("removed", removed).Int("days", r.Cfg.Pending.StaleAfterDays).
			Msg("removed stale pending entries")
	}

	if !force {
		inWindow, err := marketclock.InAnalysisWindow(now,
			r.Cfg.Market.StartAnalysis, r.Cfg.Market.EndAnalysis, r.Cfg.Market.Timezone)
		if err != nil {
			return fmt.Errorf("market window check: %w", err)
		}
		if !inWindow {
			log.Info().Msg("outside analysis time window, exiting")
			return nil
		}
	}

	symbols, err := ledger.LoadWatchlist(r.Cfg.Paths.Watchlist)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}
	if len(symbols) == 0 {
		log.Info().Msg("no stocks to analyze, exiting")
		return nil
	}
	log.Info().Strs("symbols", symbols).Msg("signal bot started")

	for _, symbol := range symbols {
		if err := r.processSymbol(symbol, interval, period, now); err != nil {
			log.Error().Err(err).Str("symbol", symbol).Msg("failed to process symbol")
		}
	}

	if r.Alerts.Len() > 0 {
		sent := r.Alerts.Flush(ctx)
		log.Info().Int("sent", sent).Msg("alert queue flushed")
	}

	return nil
}

func (r *Runner) processSymbol(symbol, interval, period string, now time.Time) error {
	log.Info().Str("symbol", symbol).Msg("fetching data")

	bars, err := r.Feed.RecentBars(symbol, interval, period)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		log.Warn().Str("symbol", symbol).Msg("no data retrieved")
		return nil
	}

	if r.Cfg.Paths.HistoryDir != "" {
		if err := saveHistory(r.Cfg.Paths.HistoryDir, symbol, bars); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("failed to save history snapshot")
		}
	}

	snap, err := r.Evaluator.Analyze(bars)
	if err != nil {
		if errors.Is(err, signals.ErrInsufficientData) {
			log.Warn().Str("symbol", symbol).Int("bars", len(bars)).
				Msg("insufficient data, skipping")
			return nil
		}
		return fmt.Errorf("analyze signals: %w", err)
	}
	bias := signals.Score(snap)

	if r.Cfg.LongTerm.Enabled {
		match, err := r.longTermConfirms(symbol, bias)
		if err != nil {
			return err
		}
		if !match {
			return nil
		}
	}

	if err := r.Predictions.Append(predictionRecord(symbol, bias, snap, now)); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("failed to log prediction")
	}

	proposal := r.Engine.Evaluate(bias, snap)
	if proposal == nil {
		return nil
	}

	trigger, dir, ok := strategy.TriggerPrice(bias, snap.LastHigh, snap.LastLow)
	if !ok {
		return nil
	}

	queued, err := r.Pending.IsQueued(symbol, trigger)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if queued {
		log.Info().Str("symbol", symbol).Str("trigger", trigger.StringFixed(2)).
			Msg("already queued, skipping")
		return nil
	}

	entry := types.PendingEntry{
		Symbol:         symbol,
		DateLogged:     now.Format(time.RFC3339),
		Trend:          string(bias),
		SignalTime:     now.Format(time.RFC3339),
		SignalHigh:     round2(snap.LastHigh),
		SignalLow:      round2(snap.LastLow),
		VWAP:           round2(snap.VWAP),
		Direction:      string(dir),
		TriggerPrice:   trigger.StringFixed(2),
		EntryCondition: strategy.EntryCondition(dir, trigger),
		Status:         types.StatusWaiting,
		Notes:          "Auto-queued by strategy engine",
	}
	if err := r.Pending.Queue(entry); err != nil {
		return fmt.Errorf("queue pending entry: %w", err)
	}
	log.Info().Str("symbol", symbol).Str("trigger", trigger.StringFixed(2)).
		Msg("queued for confirmation ⏳")

	r.Alerts.Add(notify.FormatAlert(symbol, bias, snap))
	return nil
}

// longTermConfirms re-scores the symbol at the higher timeframe and,
// when require_trend_match is set, rejects symbols whose short- and
// long-term bias disagree.
func (r *Runner) longTermConfirms(symbol string, bias types.Bias) (bool, error) {
	longBars, err := r.Feed.RecentBars(symbol, r.Cfg.LongTerm.Interval, r.Cfg.LongTerm.Period)
	if err != nil {
		return false, fmt.Errorf("fetch long-term bars: %w", err)
	}
	if len(longBars) == 0 {
		log.Warn().Str("symbol", symbol).Msg("no long-term data, skipping")
		return false, nil
	}

	longBias := types.BiasNeutral
	if longSnap, err := r.Evaluator.Analyze(longBars); err == nil {
		longBias = signals.Score(longSnap)
	}

	if r.Cfg.LongTerm.RequireTrendMatch && bias != longBias {
		log.Info().Str("symbol", symbol).
			Str("trend", string(bias)).Str("long_term", string(longBias)).
			Msg("trend rejected by long-term filter")
		return false, nil
	}
	return true, nil
}

func predictionRecord(symbol string, bias types.Bias, snap *signals.SignalSnapshot, now time.Time) types.PredictionRecord {
	return types.PredictionRecord{
		Timestamp:   now.Format(time.RFC3339),
		Symbol:      symbol,
		Trend:       string(bias),
		EMA:         boolString(snap.EMABullish),
		VWAPSignal:  boolString(snap.VWAPAbove),
		MACD:        boolString(snap.MACDPositive),
		RSI:         round2(snap.RSI),
		VolumeSpike: boolString(snap.VolumeSpike),
		SignalHigh:  round2(snap.LastHigh),
		SignalLow:   round2(snap.LastLow),
		SignalVWAP:  round2(snap.VWAP),
	}
}

func round2(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
