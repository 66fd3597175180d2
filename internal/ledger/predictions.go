package ledger

import (
	"strings"

	"github.com/fazecat/signalpilot/internal/types"
)

var predictionHeaders = []string{
	"Timestamp", "Symbol", "Trend",
	"EMA", "VWAP Signal", "MACD", "RSI", "Volume Spike",
	"Signal High", "Signal Low", "Signal VWAP",
}

// PredictionStore is the append-only audit trail of scored snapshots.
type PredictionStore struct {
	cs csvStore
}

func NewPredictionStore(path string) *PredictionStore {
	return &PredictionStore{cs: csvStore{path: path, headers: predictionHeaders}}
}

func predictionToRow(r types.PredictionRecord) []string {
	return []string{
		r.Timestamp, r.Symbol, r.Trend,
		r.EMA, r.VWAPSignal, r.MACD, r.RSI, r.VolumeSpike,
		r.SignalHigh, r.SignalLow, r.SignalVWAP,
	}
}

func rowToPrediction(row []string) types.PredictionRecord {
	return types.PredictionRecord{
		Timestamp:   field(row, 0),
		Symbol:      field(row, 1),
		Trend:       field(row, 2),
		EMA:         field(row, 3),
		VWAPSignal:  field(row, 4),
		MACD:        field(row, 5),
		RSI:         field(row, 6),
		VolumeSpike: field(row, 7),
		SignalHigh:  field(row, 8),
		SignalLow:   field(row, 9),
		SignalVWAP:  field(row, 10),
	}
}

// Append writes one audit row. Prediction rows are never mutated.
func (ps *PredictionStore) Append(r types.PredictionRecord) error {
	return ps.cs.appendRow(predictionToRow(r))
}

// LatestBySymbol returns the most recent record for the symbol, or
// false when none exists. Symbol match is case-insensitive.
func (ps *PredictionStore) LatestBySymbol(symbol string) (types.PredictionRecord, bool, error) {
	rows, err := ps.cs.load()
	if err != nil {
		return types.PredictionRecord{}, false, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		r := rowToPrediction(rows[i])
		if strings.EqualFold(r.Symbol, symbol) {
			return r, true, nil
		}
	}
	return types.PredictionRecord{}, false, nil
}
