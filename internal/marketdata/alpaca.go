package marketdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/rs/zerolog/log"

	"github.com/fazecat/signalpilot/internal/types"
)

const (
	dataBaseURL  = "https://data.alpaca.markets"
	tradeBaseURL = "https://paper-api.alpaca.markets"
)

// AlpacaFeed fetches bars and latest trades from the Alpaca data API.
type AlpacaFeed struct {
	apiKey    string
	secretKey string
	client    *http.Client
}

func NewAlpacaFeed() *AlpacaFeed {
	return &AlpacaFeed{
		apiKey:    os.Getenv("ALPACA_API_KEY"),
		secretKey: os.Getenv("ALPACA_API_SECRET"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AccountCheck verifies the API keys against the paper trading account
// endpoint before a serve/run session starts.
func AccountCheck() error {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")
	if apiKey == "" || secretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   tradeBaseURL,
	})
	if _, err := client.GetAccount(); err != nil {
		return fmt.Errorf("alpaca account check: %w", err)
	}
	return nil
}

// intervalToTimeframe maps the short interval notation ("5m", "1h") to
// Alpaca timeframes.
func intervalToTimeframe(interval string) string {
	switch strings.ToLower(interval) {
	case "1m":
		return "1Min"
	case "5m":
		return "5Min"
	case "15m":
		return "15Min"
	case "30m":
		return "30Min"
	case "1h":
		return "1Hour"
	case "1d":
		return "1Day"
	default:
		return "5Min"
	}
}

// periodToLookback maps the period notation ("1d", "7d", "1mo") to a
// lookback duration for the start parameter.
func periodToLookback(period string) time.Duration {
	switch strings.ToLower(period) {
	case "1d":
		return 24 * time.Hour
	case "5d":
		return 5 * 24 * time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "1mo":
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// RecentBars fetches up to 1000 bars for the interval/period window,
// chronologically ascending. A 403 (plan without access to the
// timeframe) degrades to an empty series rather than an error.
func (f *AlpacaFeed) RecentBars(symbol, interval, period string) ([]types.Bar, error) {
	timeframe := intervalToTimeframe(interval)
	start := time.Now().UTC().Add(-periodToLookback(period)).Format(time.RFC3339)

	apiURL := fmt.Sprintf(
		"%s/v2/stocks/%s/bars?timeframe=%s&limit=%d&start=%s",
		dataBaseURL, url.PathEscape(symbol), timeframe, 1000, url.QueryEscape(start),
	)

	var bars []types.Bar
	err := RetryWithBackoff(func() error {
		req, _ := http.NewRequest(http.MethodGet, apiURL, nil)
		req.Header.Set("APCA-API-KEY-ID", f.apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", f.secretKey)

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusForbidden {
			log.Warn().Str("symbol", symbol).Str("timeframe", timeframe).
				Msg("403 from data API, account may not have access to this timeframe")
			bars = nil
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bars API returned status %d", resp.StatusCode)
		}

		var r struct {
			Bars []types.Bar `json:"bars"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}
		bars = r.Bars
		return nil
	}, DefaultRetryConfig())
	if err != nil {
		return nil, err
	}

	return bars, nil
}

// LatestPrice fetches the most recent trade price for the symbol.
func (f *AlpacaFeed) LatestPrice(symbol string) (float64, error) {
	apiURL := fmt.Sprintf("%s/v2/stocks/%s/trades/latest", dataBaseURL, url.PathEscape(symbol))

	var price float64
	err := RetryWithBackoff(func() error {
		req, _ := http.NewRequest(http.MethodGet, apiURL, nil)
		req.Header.Set("APCA-API-KEY-ID", f.apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", f.secretKey)

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("latest trade API returned status: %s", resp.Status)
		}

		var r struct {
			Trade struct {
				Price float64 `json:"p"`
			} `json:"trade"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}
		price = r.Trade.Price
		return nil
	}, DefaultRetryConfig())
	if err != nil {
		return 0, err
	}
	if price == 0 {
		return 0, fmt.Errorf("no trade data for %s", symbol)
	}
	return price, nil
}
