package signals

import (
	"errors"

	"github.com/fazecat/signalpilot/internal/indicators"
	"github.com/fazecat/signalpilot/internal/types"
)

// MinBars is the minimum series length the evaluator accepts. Below
// this the 21-period EMA has no value and the MACD has barely
// converged.
const MinBars = 30

// ErrInsufficientData is returned when fewer than MinBars bars are
// supplied. Consumers must skip the symbol and not score it.
var ErrInsufficientData = errors.New("not enough data to evaluate signals")

// SignalSnapshot holds the derived flags for one symbol at one
// evaluation cycle. It is ephemeral; the prediction ledger keeps the
// persisted summary.
type SignalSnapshot struct {
	EMABullish   bool
	EMABearish   bool
	VWAPAbove    bool
	VWAPBelow    bool
	MACDPositive bool
	MACDNegative bool
	RSI          float64
	RSIBullish   bool
	RSIBearish   bool
	VolumeSpike  bool

	// Reference levels at detection, used by the entry queue.
	LastClose float64
	LastHigh  float64
	LastLow   float64
	VWAP      float64
}

// Flag looks a rule name up in the snapshot. Unknown names are false.
func (s *SignalSnapshot) Flag(name string) bool {
	switch name {
	case "ema_bullish":
		return s.EMABullish
	case "ema_bearish":
		return s.EMABearish
	case "vwap_above":
		return s.VWAPAbove
	case "vwap_below":
		return s.VWAPBelow
	case "macd_positive":
		return s.MACDPositive
	case "macd_negative":
		return s.MACDNegative
	case "rsi_bullish":
		return s.RSIBullish
	case "rsi_bearish":
		return s.RSIBearish
	case "volume_spike":
		return s.VolumeSpike
	}
	return false
}

type Evaluator struct {
	ema  *indicators.EMAService
	macd *indicators.MACDService
	rsi  *indicators.RSIService
	vwap *indicators.VWAPService
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		ema:  indicators.NewEMAService(),
		macd: indicators.NewMACDService(),
		rsi:  indicators.NewRSIService(),
		vwap: indicators.NewVWAPService(),
	}
}

// Analyze derives the signal snapshot from a chronologically ascending
// bar series. Strict inequalities throughout, so a flat reading sets
// neither side of a flag pair.
func (e *Evaluator) Analyze(bars []types.Bar) (*SignalSnapshot, error) {
	if len(bars) < MinBars {
		return nil, ErrInsufficientData
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}
	last := len(bars) - 1

	snap := &SignalSnapshot{
		LastClose: bars[last].Close,
		LastHigh:  bars[last].High,
		LastLow:   bars[last].Low,
	}

	// 1. EMA crossover (9 vs 21)
	ema9 := e.ema.Calculate(closes, 9)
	ema21 := e.ema.Calculate(closes, 21)
	snap.EMABullish = ema9[last] > ema21[last]
	snap.EMABearish = ema9[last] < ema21[last]

	// 2. VWAP
	vwap := e.vwap.Calculate(closes, volumes)
	snap.VWAP = vwap[last]
	snap.VWAPAbove = closes[last] > vwap[last]
	snap.VWAPBelow = closes[last] < vwap[last]

	// 3. MACD histogram (12/26/9)
	macd := e.macd.Calculate(closes, 12, 26, 9)
	snap.MACDPositive = macd.Histogram[last] > 0
	snap.MACDNegative = macd.Histogram[last] < 0

	// 4. RSI vs midpoint
	rsi := e.rsi.Calculate(closes, 14)
	snap.RSI = rsi[last]
	snap.RSIBullish = rsi[last] > 50
	snap.RSIBearish = rsi[last] < 50

	// 5. Volume spike vs trailing 20-bar average
	avgVol := indicators.TrailingAverageVolume(volumes, 20)
	snap.VolumeSpike = avgVol > 0 && volumes[last] > avgVol*1.5

	return snap, nil
}
