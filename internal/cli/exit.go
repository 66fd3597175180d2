package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fazecat/signalpilot/internal/ledger"
)

var (
	exitPrice   float64
	exitOutcome string
	exitNotes   string
)

var exitCmd = &cobra.Command{
	Use:   "exit SYMBOL",
	Short: "Record an exit for the most recent open trade",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])

		trade, err := tradeStore().LogExit(
			symbol, decimal.NewFromFloat(exitPrice), exitOutcome, exitNotes, time.Now())
		if errors.Is(err, ledger.ErrNoOpenTrade) {
			log.Warn().Str("symbol", symbol).Msg("no open trade found ❌")
			return nil
		}
		if err != nil {
			return err
		}

		log.Info().Str("symbol", symbol).
			Str("exit_price", trade.ExitPrice).
			Str("change_pct", trade.ChangePct).
			Str("outcome", trade.Outcome).
			Msg("exit recorded ✅")
		return nil
	},
}

func init() {
	exitCmd.Flags().Float64Var(&exitPrice, "price", 0, "exit price (required)")
	exitCmd.Flags().StringVar(&exitOutcome, "outcome", "", "override the derived outcome")
	exitCmd.Flags().StringVar(&exitNotes, "notes", "", "free-text notes for the trade row")
	exitCmd.MarkFlagRequired("price")
}
