package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// csvStore is the shared flat-file layer under the three ledgers. A
// store either appends exactly one full row or atomically replaces the
// whole file; a failed write never leaves a half-written row behind.
// Single writer per store is assumed (no file locking).
type csvStore struct {
	path    string
	headers []string
}

// load returns all data rows (header stripped). A missing file is an
// empty store, not an error.
func (s *csvStore) load() ([][]string, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// appendRow writes one row, creating the file with its header first if
// needed.
func (s *csvStore) appendRow(row []string) error {
	if err := s.ensureHeaders(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	w.Flush()
	return w.Error()
}

// replace rewrites the whole store through a temp file and rename so
// readers never observe a partial file.
func (s *csvStore) replace(rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(s.headers); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}

func (s *csvStore) ensureHeaders() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.replace(nil)
}

// field returns row[i] or "" when the stored row is short a column.
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
