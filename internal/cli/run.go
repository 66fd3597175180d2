package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fazecat/signalpilot/internal/notify"
	"github.com/fazecat/signalpilot/internal/pipeline"
)

var (
	runInterval string
	runPeriod   string
	runForce    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one evaluation pass over the watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := runInterval
		if interval == "" {
			interval = cfg.Fetch.Interval
		}
		period := runPeriod
		if period == "" {
			period = cfg.Fetch.Period
		}
		log.Info().Str("interval", interval).Str("period", period).Bool("force", runForce).
			Msg("args parsed")

		runner := pipeline.NewRunner(cfg, feed(), notify.NewQueue(notifier()))
		return runner.Run(cmd.Context(), interval, period, runForce)
	},
}

func init() {
	addRunFlags(runCmd.Flags())
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&runInterval, "interval", "", "bar interval, e.g. 5m, 15m, 1h (default from config)")
	fs.StringVar(&runPeriod, "period", "", "lookback period, e.g. 1d, 7d (default from config)")
	fs.BoolVar(&runForce, "force", false, "run even outside the market analysis window")
}
