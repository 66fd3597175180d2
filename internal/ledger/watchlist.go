package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadWatchlist reads the symbol column from the watchlist CSV. The
// file has a "Symbol" header; blank cells are skipped.
func LoadWatchlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := 0
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "Symbol") {
			col = i
			break
		}
	}

	var symbols []string
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(row[col]))
		if sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}
