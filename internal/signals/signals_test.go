package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/signalpilot/internal/types"
)

// barSeries builds an ascending bar series from close prices with a
// fixed 0.5 high/low spread and per-bar volumes.
func barSeries(closes []float64, volumes []int64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.Bar{
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute).Format(time.RFC3339),
			Open:      c,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    volumes[i],
		}
	}
	return bars
}

func trendBars(start, step float64, n int, lastVolSpike bool) []types.Bar {
	closes := make([]float64, n)
	volumes := make([]int64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
		volumes[i] = 100
	}
	if lastVolSpike {
		volumes[n-1] = 200
	}
	return barSeries(closes, volumes)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	snap, err := NewEvaluator().Analyze(trendBars(100, 0.5, MinBars-1, false))
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyzeBullishSeries(t *testing.T) {
	bars := trendBars(100, 0.5, 30, true)
	snap, err := NewEvaluator().Analyze(bars)
	require.NoError(t, err)

	assert.True(t, snap.EMABullish)
	assert.False(t, snap.EMABearish)
	assert.True(t, snap.VWAPAbove)
	assert.True(t, snap.MACDPositive)
	assert.True(t, snap.RSIBullish)
	assert.True(t, snap.VolumeSpike)

	assert.InDelta(t, 114.5, snap.LastClose, 1e-9)
	assert.InDelta(t, 115.0, snap.LastHigh, 1e-9)
	assert.InDelta(t, 114.0, snap.LastLow, 1e-9)
	assert.Less(t, snap.VWAP, snap.LastClose)
}

func TestAnalyzeBearishSeries(t *testing.T) {
	bars := trendBars(150, -0.5, 30, false)
	snap, err := NewEvaluator().Analyze(bars)
	require.NoError(t, err)

	assert.True(t, snap.EMABearish)
	assert.False(t, snap.EMABullish)
	assert.True(t, snap.VWAPBelow)
	assert.True(t, snap.MACDNegative)
	assert.True(t, snap.RSIBearish)
	assert.False(t, snap.VolumeSpike)
}

func TestAnalyzeVolumeSpikeThreshold(t *testing.T) {
	// 1.5x the trailing average is not a spike; it must exceed it.
	closes := make([]float64, 30)
	volumes := make([]int64, 30)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 100
	}
	bars := barSeries(closes, volumes)

	snap, err := NewEvaluator().Analyze(bars)
	require.NoError(t, err)
	assert.False(t, snap.VolumeSpike)

	// avg over the window is (19*100+200)/20 = 105; 200 > 157.5 spikes.
	volumes[29] = 200
	snap, err = NewEvaluator().Analyze(barSeries(closes, volumes))
	require.NoError(t, err)
	assert.True(t, snap.VolumeSpike)
}

func TestAnalyzeFlatSeriesSetsNoFlagPairs(t *testing.T) {
	closes := make([]float64, 30)
	volumes := make([]int64, 30)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 100
	}
	snap, err := NewEvaluator().Analyze(barSeries(closes, volumes))
	require.NoError(t, err)

	assert.False(t, snap.EMABullish)
	assert.False(t, snap.EMABearish)
	assert.False(t, snap.VWAPAbove)
	assert.False(t, snap.VWAPBelow)
	assert.False(t, snap.MACDPositive)
	assert.False(t, snap.MACDNegative)
}

func TestScoreNilSnapshot(t *testing.T) {
	assert.Equal(t, types.BiasNeutral, Score(nil))
}

func TestScoreTable(t *testing.T) {
	cases := []struct {
		name string
		snap SignalSnapshot
		want types.Bias
	}{
		{
			name: "three bullish flags is bullish",
			snap: SignalSnapshot{EMABullish: true, VWAPAbove: true, MACDPositive: true},
			want: types.BiasBullish,
		},
		{
			name: "two bullish flags is neutral",
			snap: SignalSnapshot{EMABullish: true, VWAPAbove: true},
			want: types.BiasNeutral,
		},
		{
			name: "volume spike counts toward bullish",
			snap: SignalSnapshot{EMABullish: true, RSIBullish: true, VolumeSpike: true},
			want: types.BiasBullish,
		},
		{
			name: "two bearish flags is bearish",
			snap: SignalSnapshot{EMABearish: true, VWAPBelow: true},
			want: types.BiasBearish,
		},
		{
			name: "one bearish flag is neutral",
			snap: SignalSnapshot{MACDNegative: true},
			want: types.BiasNeutral,
		},
		{
			name: "bullish checked before bearish",
			snap: SignalSnapshot{
				EMABullish: true, VWAPAbove: true, VolumeSpike: true,
				MACDNegative: true, RSIBearish: true,
			},
			want: types.BiasBullish,
		},
		{
			name: "empty snapshot is neutral",
			snap: SignalSnapshot{},
			want: types.BiasNeutral,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := tc.snap
			got := Score(&snap)
			assert.Equal(t, tc.want, got)
			// Scoring must not mutate the snapshot.
			assert.Equal(t, tc.snap, snap)
			assert.Equal(t, got, Score(&snap))
		})
	}
}

func TestFlagUnknownNameIsFalse(t *testing.T) {
	snap := &SignalSnapshot{EMABullish: true}
	assert.True(t, snap.Flag("ema_bullish"))
	assert.False(t, snap.Flag("ema_bulish"))
	assert.False(t, snap.Flag(""))
}
