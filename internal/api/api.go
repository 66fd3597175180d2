package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/ledger"
	"github.com/fazecat/signalpilot/internal/notify"
	"github.com/fazecat/signalpilot/internal/types"
)

// API is the read-only status surface over the ledgers, replacing the
// chat-command bot: the companion relays these lookups on request.
type API struct {
	Pending     *ledger.PendingStore
	Trades      *ledger.TradeStore
	Predictions *ledger.PredictionStore
	JWTManager  *JWTManager
}

// NewRouter builds the chi router. Query routes are public; the exit
// mutation requires a Bearer token.
func (api *API) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    "healthy",
		})
	})

	r.Get("/api/status/{symbol}", api.HandleStatus)
	r.Get("/api/pending", api.HandlePending)
	r.Get("/api/trades", api.HandleTrades)
	r.Post("/api/token", api.HandleGenerateToken)

	r.Group(func(r chi.Router) {
		r.Use(JWTAuthMiddleware(api.JWTManager))
		r.Post("/api/exit", api.HandleExit)
	})

	return r
}

// HandleStatus returns the latest prediction and last trade for a
// symbol, plus the rendered status text.
func (api *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	pred, found, err := api.Predictions.LatestBySymbol(symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("failed to load predictions")
		WriteError(w, http.StatusInternalServerError, "Failed to load predictions")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "No recent prediction found for "+symbol)
		return
	}

	trades, err := api.Trades.BySymbol(symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("failed to load trades")
		WriteError(w, http.StatusInternalServerError, "Failed to load trades")
		return
	}

	var lastTrade *types.Trade
	if len(trades) > 0 {
		lastTrade = &trades[len(trades)-1]
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prediction": pred,
		"last_trade": lastTrade,
		"text":       notify.FormatStatus(pred, lastTrade),
	})
}

// HandlePending lists the rows still awaiting confirmation.
func (api *API) HandlePending(w http.ResponseWriter, r *http.Request) {
	waiting, err := api.Pending.Waiting()
	if err != nil {
		log.Error().Err(err).Msg("failed to load pending entries")
		WriteError(w, http.StatusInternalServerError, "Failed to load pending entries")
		return
	}
	if waiting == nil {
		waiting = []types.PendingEntry{}
	}
	WriteJSON(w, http.StatusOK, waiting)
}

// HandleTrades returns trade rows, optionally filtered by symbol,
// newest first.
func (api *API) HandleTrades(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var trades []types.Trade
	var err error
	if symbol != "" {
		trades, err = api.Trades.BySymbol(symbol)
	} else {
		trades, err = api.Trades.All()
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load trades")
		WriteError(w, http.StatusInternalServerError, "Failed to load trades")
		return
	}

	// Newest first
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	if len(trades) > limit {
		trades = trades[:limit]
	}
	if trades == nil {
		trades = []types.Trade{}
	}
	WriteJSON(w, http.StatusOK, trades)
}

// HandleGenerateToken issues a 24h token for the mutation routes.
func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "local"
	}

	token, err := api.JWTManager.GenerateToken(userID, 24)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"token": token})
}

type exitRequest struct {
	Symbol    string  `json:"symbol"`
	ExitPrice float64 `json:"exit_price"`
	Outcome   string  `json:"outcome"`
	Notes     string  `json:"notes"`
}

// HandleExit records a trade exit against the most recent open trade
// for the symbol.
func (api *API) HandleExit(w http.ResponseWriter, r *http.Request) {
	var req exitRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" || req.ExitPrice <= 0 {
		WriteError(w, http.StatusBadRequest, "symbol and a positive exit_price are required")
		return
	}

	trade, err := api.Trades.LogExit(
		strings.ToUpper(req.Symbol),
		decimal.NewFromFloat(req.ExitPrice),
		req.Outcome, req.Notes, time.Now(),
	)
	if errors.Is(err, ledger.ErrNoOpenTrade) {
		WriteError(w, http.StatusNotFound, "No open trade found for "+req.Symbol)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("symbol", req.Symbol).Msg("failed to record exit")
		WriteError(w, http.StatusInternalServerError, "Failed to record exit")
		return
	}
	WriteJSON(w, http.StatusOK, trade)
}
