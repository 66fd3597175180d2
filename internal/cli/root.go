package cli

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fazecat/signalpilot/internal/config"
	"github.com/fazecat/signalpilot/internal/ledger"
	"github.com/fazecat/signalpilot/internal/logging"
	"github.com/fazecat/signalpilot/internal/marketdata"
	"github.com/fazecat/signalpilot/internal/notify"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "signalpilot",
	Short:         "Intraday trading-signal automation pipeline",
	Long:          "signalpilot fetches intraday bars for a watchlist, scores technical signals into a directional bias, queues breakout entries, and tracks the resulting trades in flat-file ledgers.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(exitCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute loads env + config, sets up logging, and runs the CLI. Only
// errors that escaped all local handling reach this level; they are
// logged as fatal and the process exits non-zero.
func Execute() {
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		logging.Setup("")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.Paths.LogFile)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("signalpilot crashed")
	}
}

func pendingStore() *ledger.PendingStore {
	return ledger.NewPendingStore(cfg.Paths.PendingEntries)
}

func tradeStore() *ledger.TradeStore {
	return ledger.NewTradeStore(cfg.Paths.Trades)
}

func predictionStore() *ledger.PredictionStore {
	return ledger.NewPredictionStore(cfg.Paths.Predictions)
}

func feed() marketdata.Feed {
	return marketdata.NewAlpacaFeed()
}

// notifier picks discord when enabled and configured, else log-only.
func notifier() notify.Notifier {
	if cfg.Discord.Enabled {
		d, err := notify.NewDiscord(cfg.Discord.Username)
		if err != nil {
			log.Warn().Err(err).Msg("discord disabled, alerts go to the log")
			return notify.LogNotifier{}
		}
		return d
	}
	return notify.LogNotifier{}
}
