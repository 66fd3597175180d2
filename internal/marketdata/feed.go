package marketdata

import "github.com/fazecat/signalpilot/internal/types"

// Feed is the market-data contract the pipeline consumes. RecentBars
// returns a chronologically ascending series; an empty slice with a nil
// error is a valid "no data" outcome, not a failure.
type Feed interface {
	RecentBars(symbol, interval, period string) ([]types.Bar, error)
	LatestPrice(symbol string) (float64, error)
}
