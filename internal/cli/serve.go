package cli

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fazecat/signalpilot/internal/api"
	"github.com/fazecat/signalpilot/internal/marketdata"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only status API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := marketdata.AccountCheck(); err != nil {
			log.Warn().Err(err).Msg("alpaca account check failed, data routes unaffected")
		}

		server := &api.API{
			Pending:     pendingStore(),
			Trades:      tradeStore(),
			Predictions: predictionStore(),
			JWTManager:  api.NewJWTManager(),
		}

		log.Info().Str("addr", serveAddr).Msg("starting status API")
		return http.ListenAndServe(serveAddr, server.NewRouter())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
