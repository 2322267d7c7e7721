package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"keuangan/internal/core"
	"keuangan/internal/sheets"
)

// Repository is the typed read/write view over the backing record
// store. It holds no state of its own: every cycle re-fetches the full
// snapshot, parses it, and recomputes row positions from scratch.
type Repository struct {
	store sheets.RecordStore
}

func New(store sheets.RecordStore) *Repository {
	return &Repository{store: store}
}

// Snapshot is a transient per-cycle copy of the ledger. Row positions
// inside it are only valid until the next mutation.
type Snapshot struct {
	Transactions []core.Transaction
}

// Snapshot fetches all records and parses each into a Transaction.
// Rows whose date or amount fail to parse are retained with null
// fields, never dropped; they stay visible in listings and are
// excluded from date- and amount-based computations downstream.
func (r *Repository) Snapshot(ctx context.Context) (*Snapshot, error) {
	recs, err := r.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	txs := make([]core.Transaction, 0, len(recs))
	for i, rec := range recs {
		txType, _ := core.ParseTxType(rec.Type)
		txs = append(txs, core.Transaction{
			User:     rec.User,
			Date:     core.ParseDate(rec.Date),
			Type:     txType,
			Category: rec.Category,
			Amount:   core.ParseAmount(rec.Amount),
			Notes:    rec.Notes,
			Row:      i + sheets.HeaderOffset,
		})
	}
	return &Snapshot{Transactions: txs}, nil
}

// ByUser returns the rows whose user matches exactly (case-sensitive).
func (s *Snapshot) ByUser(user string) []core.Transaction {
	return FilterByUser(s.Transactions, user)
}

// Users returns the distinct non-empty users, sorted.
func (s *Snapshot) Users() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tx := range s.Transactions {
		if tx.User == "" {
			continue
		}
		if _, ok := seen[tx.User]; ok {
			continue
		}
		seen[tx.User] = struct{}{}
		out = append(out, tx.User)
	}
	sort.Strings(out)
	return out
}

// FilterByUser keeps rows with an exact, case-sensitive user match.
func FilterByUser(txs []core.Transaction, user string) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.User == user {
			out = append(out, tx)
		}
	}
	return out
}

// FilterByPeriod keeps rows whose parsed date falls in the given month
// (by English month name) and year. Undated rows never match.
func FilterByPeriod(txs []core.Transaction, monthName string, year int) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if tx.Date.MonthName() == monthName && tx.Date.Year() == year {
			out = append(out, tx)
		}
	}
	return out
}

// Months returns the distinct month names of the dated rows, in
// calendar order.
func Months(txs []core.Transaction) []string {
	seen := map[int]bool{}
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		seen[int(tx.Date.Month())] = true
	}
	var out []string
	for m := 1; m <= 12; m++ {
		if seen[m] {
			out = append(out, core.NewDate(2000, m, 1).MonthName())
		}
	}
	return out
}

// Years returns the distinct years of the dated rows, sorted.
func Years(txs []core.Transaction) []int {
	seen := map[int]bool{}
	var out []int
	for _, tx := range txs {
		if tx.Date.IsZero() || seen[tx.Date.Year()] {
			continue
		}
		seen[tx.Date.Year()] = true
		out = append(out, tx.Date.Year())
	}
	sort.Ints(out)
	return out
}

// Append validates the transaction and writes it to the store. On a
// validation error the store is never touched.
func (r *Repository) Append(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	rec := sheets.Record{
		User:     tx.User,
		Type:     string(tx.Type),
		Category: tx.Category,
		Amount:   strconv.FormatInt(tx.Amount.Rupiah, 10),
		Notes:    tx.Notes,
	}
	if !tx.Date.IsZero() {
		rec.Date = tx.Date.Format("2006-01-02")
	}
	if err := r.store.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Delete removes the row at the given 1-based position. The caller is
// expected to take a fresh snapshot afterwards; positions from the
// pre-delete snapshot are stale.
func (r *Repository) Delete(ctx context.Context, row int) error {
	if err := r.store.DeleteRecord(ctx, row); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
