package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/signalpilot/internal/signals"
	"github.com/fazecat/signalpilot/internal/types"
)

func defaultRules() map[types.Bias][]string {
	return map[types.Bias][]string{
		types.BiasBullish: {"ema_bullish", "vwap_above", "macd_positive", "rsi_bullish", "volume_spike"},
		types.BiasBearish: {"ema_bearish", "vwap_below", "macd_negative", "rsi_bearish", "volume_spike"},
	}
}

func fourOfFiveBullish() *signals.SignalSnapshot {
	return &signals.SignalSnapshot{
		EMABullish:   true,
		VWAPAbove:    true,
		MACDPositive: true,
		RSIBullish:   true,
		VolumeSpike:  false,
		LastClose:    114.5,
		LastHigh:     115.0,
		LastLow:      114.0,
	}
}

func TestEvaluateScoringMode(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		snap      *signals.SignalSnapshot
		bias      types.Bias
		propose   bool
	}{
		{"exact threshold proposes", 0.8, fourOfFiveBullish(), types.BiasBullish, true},
		{"below threshold does not", 0.9, fourOfFiveBullish(), types.BiasBullish, false},
		{"all five match", 0.8, &signals.SignalSnapshot{
			EMABullish: true, VWAPAbove: true, MACDPositive: true,
			RSIBullish: true, VolumeSpike: true, LastClose: 114.5,
		}, types.BiasBullish, true},
		{"neutral bias has no rules", 0.0, fourOfFiveBullish(), types.BiasNeutral, false},
		{"nil snapshot", 0.0, nil, types.BiasBullish, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eng := NewEngine(RuleConfig{Rules: defaultRules(), Mode: ModeScoring, Threshold: tc.threshold})
			prop := eng.Evaluate(tc.bias, tc.snap)
			if !tc.propose {
				assert.Nil(t, prop)
				return
			}
			require.NotNil(t, prop)
			assert.Equal(t, tc.snap.LastClose, prop.Price)
			assert.Equal(t, "0.5%", prop.Buffer)
			assert.Equal(t, 5, prop.RuleCount)
		})
	}
}

func TestEvaluateScoringRationale(t *testing.T) {
	eng := NewEngine(RuleConfig{Rules: defaultRules(), Mode: ModeScoring, Threshold: 0.8})
	prop := eng.Evaluate(types.BiasBullish, fourOfFiveBullish())
	require.NotNil(t, prop)
	assert.Equal(t, 4, prop.Matches)
	assert.Equal(t, "Bullish setup based on signal score 0.80", prop.Rationale)
	assert.Equal(t, "Bullish trend continuation", prop.Expectation)
}

func TestEvaluateCountMode(t *testing.T) {
	eng := NewEngine(RuleConfig{Rules: defaultRules(), Mode: ModeCount, Threshold: 4})

	prop := eng.Evaluate(types.BiasBullish, fourOfFiveBullish())
	require.NotNil(t, prop)
	assert.Equal(t, "Bullish setup met with 4 signal matches", prop.Rationale)

	eng = NewEngine(RuleConfig{Rules: defaultRules(), Mode: ModeCount, Threshold: 5})
	assert.Nil(t, eng.Evaluate(types.BiasBullish, fourOfFiveBullish()))
}

func TestEvaluateBearishRules(t *testing.T) {
	snap := &signals.SignalSnapshot{
		EMABearish: true, VWAPBelow: true, MACDNegative: true, RSIBearish: true,
		LastClose: 85.25,
	}
	eng := NewEngine(RuleConfig{Rules: defaultRules(), Mode: ModeScoring, Threshold: 0.8})
	prop := eng.Evaluate(types.BiasBearish, snap)
	require.NotNil(t, prop)
	assert.Equal(t, "Bearish setup based on signal score 0.80", prop.Rationale)
}

func TestTriggerPrice(t *testing.T) {
	cases := []struct {
		name string
		bias types.Bias
		high float64
		low  float64
		want string
		dir  types.Direction
		ok   bool
	}{
		{"bullish buffers above the high", types.BiasBullish, 115.0, 114.0, "115.58", types.DirectionLong, true},
		{"bearish buffers below the low", types.BiasBearish, 115.0, 114.0, "113.43", types.DirectionShort, true},
		{"bullish round up", types.BiasBullish, 189.41, 0, "190.36", types.DirectionLong, true},
		{"neutral has no trigger", types.BiasNeutral, 115.0, 114.0, "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, dir, ok := TriggerPrice(tc.bias, tc.high, tc.low)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				return
			}
			assert.Equal(t, tc.want, price.StringFixed(2))
			assert.Equal(t, tc.dir, dir)
		})
	}
}

func TestEntryCondition(t *testing.T) {
	price, dir, ok := TriggerPrice(types.BiasBullish, 115.0, 114.0)
	require.True(t, ok)
	assert.Equal(t, "Break above 115.58 (0.5% buffer)", EntryCondition(dir, price))

	price, dir, ok = TriggerPrice(types.BiasBearish, 115.0, 114.0)
	require.True(t, ok)
	assert.Equal(t, "Break below 113.43 (0.5% buffer)", EntryCondition(dir, price))
}
