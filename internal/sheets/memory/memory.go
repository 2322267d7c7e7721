package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"keuangan/internal/sheets"
)

// Store is an in-memory record store used for local development and
// tests. It mimics the sheet contract, including 1-based positional
// deletes that shift later rows.
type Store struct {
	mu   sync.Mutex
	rows []sheets.Record
}

var _ sheets.RecordStore = (*Store)(nil)

func New(rows ...sheets.Record) *Store {
	return &Store{rows: append([]sheets.Record(nil), rows...)}
}

// NewFromFiles seeds the store from base/seed_transactions.txt, one
// pipe-separated row per line (user|date|type|category|amount|notes).
// A missing file yields an empty store.
func NewFromFiles(base string) *Store {
	return New(readRows(filepath.Join(base, "seed_transactions.txt"))...)
}

func (s *Store) ListRecords(_ context.Context) ([]sheets.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.Record, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *Store) AppendRecord(_ context.Context, rec sheets.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rec)
	return nil
}

func (s *Store) DeleteRecord(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := row - sheets.HeaderOffset
	if idx < 0 || idx >= len(s.rows) {
		return fmt.Errorf("delete row %d: out of range (rows=%d)", row, len(s.rows))
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	return nil
}

func readRows(path string) []sheets.Record {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []sheets.Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cells := strings.Split(line, "|")
		rec := sheets.Record{}
		if len(cells) > 0 {
			rec.User = strings.TrimSpace(cells[0])
		}
		if len(cells) > 1 {
			rec.Date = strings.TrimSpace(cells[1])
		}
		if len(cells) > 2 {
			rec.Type = strings.TrimSpace(cells[2])
		}
		if len(cells) > 3 {
			rec.Category = strings.TrimSpace(cells[3])
		}
		if len(cells) > 4 {
			rec.Amount = strings.TrimSpace(cells[4])
		}
		if len(cells) > 5 {
			rec.Notes = strings.TrimSpace(cells[5])
		}
		out = append(out, rec)
	}
	return out
}
