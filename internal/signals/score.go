package signals

import "github.com/fazecat/signalpilot/internal/types"

// Score thresholds. Fixed by design: bullish needs 3 of the 5 bullish
// flags, bearish needs 2 of the 4 bearish flags (volume spike never
// counts toward bearish). Changing these is a tuning decision.
const (
	bullishScoreMin = 3
	bearishScoreMax = -2
)

// Score reduces a snapshot to a directional bias. Pure function: the
// same snapshot always yields the same bias, and a nil snapshot
// (insufficient data) is always Neutral.
func Score(snap *SignalSnapshot) types.Bias {
	if snap == nil {
		return types.BiasNeutral
	}

	bullish := 0
	bearish := 0

	if snap.EMABullish {
		bullish++
	}
	if snap.EMABearish {
		bearish--
	}

	if snap.VWAPAbove {
		bullish++
	}
	if snap.VWAPBelow {
		bearish--
	}

	if snap.MACDPositive {
		bullish++
	}
	if snap.MACDNegative {
		bearish--
	}

	if snap.RSIBullish {
		bullish++
	}
	if snap.RSIBearish {
		bearish--
	}

	if snap.VolumeSpike {
		bullish++
	}

	if bullish >= bullishScoreMin {
		return types.BiasBullish
	}
	if bearish <= bearishScoreMax {
		return types.BiasBearish
	}
	return types.BiasNeutral
}
