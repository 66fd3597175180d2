package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/signalpilot/internal/types"
)

func predictionFixture(ts, symbol, trend string) types.PredictionRecord {
	return types.PredictionRecord{
		Timestamp:   ts,
		Symbol:      symbol,
		Trend:       trend,
		EMA:         "true",
		VWAPSignal:  "true",
		MACD:        "true",
		RSI:         "61.20",
		VolumeSpike: "false",
		SignalHigh:  "115.00",
		SignalLow:   "114.00",
		SignalVWAP:  "112.34",
	}
}

func TestPredictionAppendAndLatest(t *testing.T) {
	ps := NewPredictionStore(filepath.Join(t.TempDir(), "predictions.csv"))

	require.NoError(t, ps.Append(predictionFixture("2026-03-02T09:45:00Z", "AAPL", "Neutral")))
	require.NoError(t, ps.Append(predictionFixture("2026-03-02T09:50:00Z", "MSFT", "Bearish")))
	require.NoError(t, ps.Append(predictionFixture("2026-03-02T09:55:00Z", "AAPL", "Bullish")))

	latest, found, err := ps.LatestBySymbol("AAPL")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bullish", latest.Trend)
	assert.Equal(t, "2026-03-02T09:55:00Z", latest.Timestamp)

	// Lookup is case-insensitive.
	latest, found, err = ps.LatestBySymbol("msft")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bearish", latest.Trend)

	_, found, err = ps.LatestBySymbol("NVDA")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadWatchlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	data := "Name,Symbol\nApple, aapl \nMicrosoft,MSFT\nBlank,\nNvidia,nvda\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	symbols, err := LoadWatchlist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, symbols)
}

func TestLoadWatchlistMissingFile(t *testing.T) {
	_, err := LoadWatchlist(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
