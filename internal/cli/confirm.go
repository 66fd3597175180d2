package cli

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fazecat/signalpilot/internal/tracker"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Evaluate pending entries against current prices",
	Long:  "Expires stale pending entries, then checks each waiting entry's trigger price against the latest trade price and promotes confirmed breakouts into the trade ledger.",
	RunE: func(cmd *cobra.Command, args []string) error {
		staleAge := time.Duration(cfg.Pending.StaleAfterDays) * 24 * time.Hour
		t := tracker.New(feed(), pendingStore(), tradeStore(), staleAge)

		entered, err := t.Sweep(time.Now())
		if err != nil {
			return err
		}
		log.Info().Int("entered", entered).Msg("confirmation sweep finished")
		return nil
	},
}
