package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/signals"
	"github.com/fazecat/signalpilot/internal/types"
)

// MatchMode selects how the rule threshold is interpreted.
type MatchMode string

const (
	// ModeScoring treats Threshold as a fraction of the rule list that
	// must match (0.8 = 4 of 5).
	ModeScoring MatchMode = "scoring"
	// ModeCount treats Threshold as an absolute match count. The two
	// modes do not share a numeric constant; re-derive the threshold
	// when switching.
	ModeCount MatchMode = "count"
)

// Buffer applied on top of the reference high/low when computing the
// trigger price.
const triggerBufferPct = 0.005

// RuleConfig is the entry rule set handed to the engine explicitly; no
// package-level defaults are consulted at evaluation time.
type RuleConfig struct {
	Rules     map[types.Bias][]string
	Mode      MatchMode
	Threshold float64
}

// Proposal is the engine's decision to queue a breakout entry.
type Proposal struct {
	Price       float64
	Buffer      string
	Rationale   string
	Expectation string
	Matches     int
	RuleCount   int
}

type Engine struct {
	cfg RuleConfig
}

func NewEngine(cfg RuleConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate matches the scored bias against the configured rule list.
// Returns nil when the bias has no rules or the match threshold is not
// met. The >= comparison makes an exact-threshold match propose.
func (e *Engine) Evaluate(bias types.Bias, snap *signals.SignalSnapshot) *Proposal {
	rules, ok := e.cfg.Rules[bias]
	if !ok || len(rules) == 0 || snap == nil {
		return nil
	}

	matches := 0
	for _, rule := range rules {
		if snap.Flag(rule) {
			matches++
		}
	}

	switch e.cfg.Mode {
	case ModeScoring:
		score := float64(matches) / float64(len(rules))
		if score >= e.cfg.Threshold {
			return &Proposal{
				Price:       snap.LastClose,
				Buffer:      "0.5%",
				Rationale:   fmt.Sprintf("%s setup based on signal score %.2f", bias, score),
				Expectation: fmt.Sprintf("%s trend continuation", bias),
				Matches:     matches,
				RuleCount:   len(rules),
			}
		}
	case ModeCount:
		if float64(matches) >= e.cfg.Threshold {
			return &Proposal{
				Price:       snap.LastClose,
				Buffer:      "0.5%",
				Rationale:   fmt.Sprintf("%s setup met with %d signal matches", bias, matches),
				Expectation: fmt.Sprintf("%s trend continuation", bias),
				Matches:     matches,
				RuleCount:   len(rules),
			}
		}
	}

	return nil
}

// TriggerPrice computes the breakout trigger for a confirmed bias:
// 0.5% above the signal high for bullish, 0.5% below the signal low for
// bearish, rounded to 2 decimals. ok is false for a neutral bias.
func TriggerPrice(bias types.Bias, signalHigh, signalLow float64) (price decimal.Decimal, dir types.Direction, ok bool) {
	switch bias {
	case types.BiasBullish:
		p := decimal.NewFromFloat(signalHigh).Mul(decimal.NewFromFloat(1 + triggerBufferPct))
		return p.Round(2), types.DirectionLong, true
	case types.BiasBearish:
		p := decimal.NewFromFloat(signalLow).Mul(decimal.NewFromFloat(1 - triggerBufferPct))
		return p.Round(2), types.DirectionShort, true
	}
	return decimal.Decimal{}, "", false
}

// EntryCondition renders the human-readable condition stored alongside
// the trigger price.
func EntryCondition(dir types.Direction, trigger decimal.Decimal) string {
	if dir == types.DirectionShort {
		return fmt.Sprintf("Break below %s (0.5%% buffer)", trigger.StringFixed(2))
	}
	return fmt.Sprintf("Break above %s (0.5%% buffer)", trigger.StringFixed(2))
}
