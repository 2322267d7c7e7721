package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"keuangan/internal/sheets"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAppendListDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	recs := []sheets.Record{
		{User: "A", Date: "2024-01-05", Type: "Income", Category: "Gaji", Amount: "5000000"},
		{User: "A", Date: "2024-01-10", Type: "Outcome", Category: "Makanan", Amount: "200000"},
		{User: "B", Date: "2024-01-11", Type: "Outcome", Category: "Transportasi", Amount: "30000"},
	}
	for _, rec := range recs {
		if err := repo.AppendRecord(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows, err := repo.ListRecords(ctx)
	if err != nil || len(rows) != 3 {
		t.Fatalf("list: rows=%d err=%v", len(rows), err)
	}
	if rows[0].Category != "Gaji" || rows[2].User != "B" {
		t.Fatalf("unexpected order: %+v", rows)
	}

	// Positional delete resolves against the current listing.
	if err := repo.DeleteRecord(ctx, sheets.HeaderOffset); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, _ = repo.ListRecords(ctx)
	if len(rows) != 2 || rows[0].Category != "Makanan" {
		t.Fatalf("unexpected rows after delete: %+v", rows)
	}

	if err := repo.DeleteRecord(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, sheets.Record{User: "A", Type: "Income", Category: "Gaji", Amount: "100"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("pending: %+v err=%v", pending, err)
	}
	if pending[0].Deleted || pending[0].Version != 1 {
		t.Fatalf("unexpected bookkeeping: %+v", pending[0])
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %+v", pending)
	}

	// Soft delete re-queues the row for the worker with a bumped version.
	if err := repo.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	pending, _ = repo.GetPendingSync(ctx, 10)
	if len(pending) != 1 || !pending[0].Deleted || pending[0].Version != 2 {
		t.Fatalf("expected deleted pending row, got %+v", pending)
	}
	rows, _ := repo.ListRecords(ctx)
	if len(rows) != 0 {
		t.Fatalf("soft-deleted row still listed: %+v", rows)
	}

	if err := repo.SoftDelete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil || !got.Deleted {
		t.Fatalf("get transaction: %+v err=%v", got, err)
	}
}
