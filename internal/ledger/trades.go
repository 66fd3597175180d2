package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/types"
)

var tradeHeaders = []string{
	"Symbol", "Entry Time", "Entry Price",
	"Buffer", "Rationale", "Expectation",
	"Signal Source Time", "Trend at Entry",
	"Exit Time", "Exit Price", "Change %", "Outcome", "Notes",
}

// ErrNoOpenTrade is returned by LogExit when the symbol has no trade
// with an empty exit time.
var ErrNoOpenTrade = errors.New("no open trade found")

// Outcome thresholds on the rounded percent change.
var (
	winThreshold  = decimal.NewFromFloat(0.5)
	lossThreshold = decimal.NewFromFloat(-0.5)
)

// TradeStore is the trade ledger: confirmed entries and their exits.
// Rows are never deleted.
type TradeStore struct {
	cs csvStore
}

func NewTradeStore(path string) *TradeStore {
	return &TradeStore{cs: csvStore{path: path, headers: tradeHeaders}}
}

func tradeToRow(t types.Trade) []string {
	return []string{
		t.Symbol, t.EntryTime, t.EntryPrice,
		t.Buffer, t.Rationale, t.Expectation,
		t.SignalTime, t.TrendAtEntry,
		t.ExitTime, t.ExitPrice, t.ChangePct, t.Outcome, t.Notes,
	}
}

func rowToTrade(row []string) types.Trade {
	return types.Trade{
		Symbol:       field(row, 0),
		EntryTime:    field(row, 1),
		EntryPrice:   field(row, 2),
		Buffer:       field(row, 3),
		Rationale:    field(row, 4),
		Expectation:  field(row, 5),
		SignalTime:   field(row, 6),
		TrendAtEntry: field(row, 7),
		ExitTime:     field(row, 8),
		ExitPrice:    field(row, 9),
		ChangePct:    field(row, 10),
		Outcome:      field(row, 11),
		Notes:        field(row, 12),
	}
}

// All returns every trade row.
func (ts *TradeStore) All() ([]types.Trade, error) {
	rows, err := ts.cs.load()
	if err != nil {
		return nil, err
	}
	trades := make([]types.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, rowToTrade(row))
	}
	return trades, nil
}

// BySymbol returns the rows for one symbol, in insertion order.
func (ts *TradeStore) BySymbol(symbol string) ([]types.Trade, error) {
	trades, err := ts.All()
	if err != nil {
		return nil, err
	}
	var matched []types.Trade
	for _, t := range trades {
		if t.Symbol == symbol {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// LogEntry appends a new open trade row. Exit fields stay blank.
func (ts *TradeStore) LogEntry(t types.Trade) error {
	return ts.cs.appendRow(tradeToRow(t))
}

// LogExit closes the most recently created open trade for the symbol.
// Percent change is (exit-entry)/entry*100 rounded to 2 decimals; a
// non-numeric or zero entry price leaves the change blank and forces
// the outcome to Error. Without an explicit outcome, >0.5 is a Win,
// <-0.5 a Loss, otherwise Neutral. All other fields are untouched.
func (ts *TradeStore) LogExit(symbol string, exitPrice decimal.Decimal, outcome, notes string, now time.Time) (types.Trade, error) {
	rows, err := ts.cs.load()
	if err != nil {
		return types.Trade{}, err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		t := rowToTrade(rows[i])
		if t.Symbol != symbol || !t.Open() {
			continue
		}

		entryPrice, perr := decimal.NewFromString(t.EntryPrice)
		if perr != nil || entryPrice.IsZero() {
			t.ChangePct = ""
			t.Outcome = types.OutcomeError
		} else {
			change := exitPrice.Sub(entryPrice).Div(entryPrice).Mul(decimal.NewFromInt(100)).Round(2)
			t.ChangePct = change.StringFixed(2)
			if outcome != "" {
				t.Outcome = outcome
			} else {
				t.Outcome = defaultOutcome(change)
			}
		}

		t.ExitTime = now.Format(time.RFC3339)
		t.ExitPrice = exitPrice.StringFixed(2)
		t.Notes = notes
		rows[i] = tradeToRow(t)

		if err := ts.cs.replace(rows); err != nil {
			return types.Trade{}, err
		}
		return t, nil
	}

	return types.Trade{}, ErrNoOpenTrade
}

func defaultOutcome(change decimal.Decimal) string {
	switch {
	case change.GreaterThan(winThreshold):
		return types.OutcomeWin
	case change.LessThan(lossThreshold):
		return types.OutcomeLoss
	default:
		return types.OutcomeNeutral
	}
}
