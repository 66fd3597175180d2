package ledger

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fazecat/signalpilot/internal/types"
)

var pendingHeaders = []string{
	"Symbol", "Date Logged", "Signal Trend", "Signal Source Time",
	"Signal High", "Signal Low", "VWAP", "Direction", "Trigger Price",
	"Entry Condition", "Status", "Entry Time", "Entry Price", "Notes",
}

// PendingStore is the pending-entry ledger: proposed trades awaiting
// price confirmation.
type PendingStore struct {
	cs csvStore
}

func NewPendingStore(path string) *PendingStore {
	return &PendingStore{cs: csvStore{path: path, headers: pendingHeaders}}
}

func pendingToRow(e types.PendingEntry) []string {
	return []string{
		e.Symbol, e.DateLogged, e.Trend, e.SignalTime,
		e.SignalHigh, e.SignalLow, e.VWAP, e.Direction, e.TriggerPrice,
		e.EntryCondition, string(e.Status), e.EntryTime, e.EntryPrice, e.Notes,
	}
}

func rowToPending(row []string) types.PendingEntry {
	return types.PendingEntry{
		Symbol:         field(row, 0),
		DateLogged:     field(row, 1),
		Trend:          field(row, 2),
		SignalTime:     field(row, 3),
		SignalHigh:     field(row, 4),
		SignalLow:      field(row, 5),
		VWAP:           field(row, 6),
		Direction:      field(row, 7),
		TriggerPrice:   field(row, 8),
		EntryCondition: field(row, 9),
		Status:         types.PendingStatus(field(row, 10)),
		EntryTime:      field(row, 11),
		EntryPrice:     field(row, 12),
		Notes:          field(row, 13),
	}
}

// All returns every row in the store.
func (ps *PendingStore) All() ([]types.PendingEntry, error) {
	rows, err := ps.cs.load()
	if err != nil {
		return nil, err
	}
	entries := make([]types.PendingEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToPending(row))
	}
	return entries, nil
}

// Waiting returns the rows still awaiting confirmation.
func (ps *PendingStore) Waiting() ([]types.PendingEntry, error) {
	entries, err := ps.All()
	if err != nil {
		return nil, err
	}
	var waiting []types.PendingEntry
	for _, e := range entries {
		if e.Status == types.StatusWaiting {
			waiting = append(waiting, e)
		}
	}
	return waiting, nil
}

// Queue appends one waiting entry.
func (ps *PendingStore) Queue(e types.PendingEntry) error {
	if e.Status == "" {
		e.Status = types.StatusWaiting
	}
	return ps.cs.appendRow(pendingToRow(e))
}

// IsQueued reports whether a waiting row already exists for the symbol
// at exactly this trigger price. Comparison is on the parsed price, not
// on the condition text, so 18.5 never shadows 118.5.
func (ps *PendingStore) IsQueued(symbol string, trigger decimal.Decimal) (bool, error) {
	waiting, err := ps.Waiting()
	if err != nil {
		return false, err
	}
	for _, e := range waiting {
		if e.Symbol != symbol {
			continue
		}
		stored, err := decimal.NewFromString(e.TriggerPrice)
		if err != nil {
			continue
		}
		if stored.Equal(trigger) {
			return true, nil
		}
	}
	return false, nil
}

// SweepStale marks waiting rows older than maxAge as removed and
// rewrites the store. Rows whose signal time does not parse are left
// alone and logged. Returns how many rows were expired.
func (ps *PendingStore) SweepStale(now time.Time, maxAge time.Duration) (int, error) {
	rows, err := ps.cs.load()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	removed := 0
	for i, row := range rows {
		e := rowToPending(row)
		if e.Status != types.StatusWaiting {
			continue
		}
		signalTime, err := time.Parse(time.RFC3339, e.SignalTime)
		if err != nil {
			log.Warn().Str("symbol", e.Symbol).Str("signal_time", e.SignalTime).
				Msg("pending row has unparsable signal time, leaving as is")
			continue
		}
		if now.Sub(signalTime) >= maxAge {
			e.Status = types.StatusRemoved
			rows[i] = pendingToRow(e)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	if err := ps.cs.replace(rows); err != nil {
		return 0, err
	}
	return removed, nil
}

// MarkEntered flips the oldest waiting row for the symbol at exactly
// this trigger price to entered and stamps the confirmation time and
// fill price. The trigger selects the row: a symbol may hold several
// waiting rows and only the one whose trigger was verified may flip.
// Comparison is on the parsed price, as in IsQueued. Returns false when
// no matching row exists.
func (ps *PendingStore) MarkEntered(symbol string, trigger, entryPrice decimal.Decimal, now time.Time, notes string) (bool, error) {
	rows, err := ps.cs.load()
	if err != nil {
		return false, err
	}

	updated := false
	for i, row := range rows {
		e := rowToPending(row)
		if e.Symbol != symbol || e.Status != types.StatusWaiting {
			continue
		}
		stored, perr := decimal.NewFromString(e.TriggerPrice)
		if perr != nil || !stored.Equal(trigger) {
			continue
		}
		e.Status = types.StatusEntered
		e.EntryTime = now.Format(time.RFC3339)
		e.EntryPrice = entryPrice.StringFixed(2)
		e.Notes = notes
		rows[i] = pendingToRow(e)
		updated = true
		break
	}

	if !updated {
		return false, nil
	}
	return true, ps.cs.replace(rows)
}

// CleanMalformed drops rows whose condition text carries a header
// fragment from an earlier format. Returns how many rows were dropped.
func (ps *PendingStore) CleanMalformed() (int, error) {
	rows, err := ps.cs.load()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	kept := make([][]string, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if strings.Contains(rowToPending(row).EntryCondition, "Ticker") {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	if dropped == 0 {
		return 0, nil
	}
	return dropped, ps.cs.replace(kept)
}
