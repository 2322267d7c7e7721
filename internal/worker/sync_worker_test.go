package worker

import (
	"context"
	"path/filepath"
	"testing"

	"keuangan/internal/amqp"
	"keuangan/internal/sheets"
	"keuangan/internal/sheets/memory"
	"keuangan/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testRecord() sheets.Record {
	return sheets.Record{
		User:     "budi",
		Date:     "2024-03-01",
		Type:     "Income",
		Category: "Gaji",
		Amount:   "5000000",
	}
}

func TestHandleSyncAppendsToSheet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sheet := memory.New()
	w := NewSyncWorker(repo, sheet, 10)

	id, err := repo.Insert(ctx, testRecord())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	env := &amqp.Envelope{Kind: "sync", Sync: amqp.NewSyncMessage(id, 1)}
	if err := w.HandleEnvelope(ctx, env); err != nil {
		t.Fatalf("handle sync: %v", err)
	}

	rows, _ := sheet.ListRecords(ctx)
	if len(rows) != 1 {
		t.Fatalf("sheet rows = %d, want 1", len(rows))
	}
	if rows[0].User != "budi" || rows[0].Amount != "5000000" {
		t.Errorf("sheet row = %+v", rows[0])
	}

	pending, _ := repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d, want 0", len(pending))
	}
}

func TestHandleSyncSkipsDeletedTransaction(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sheet := memory.New()
	w := NewSyncWorker(repo, sheet, 10)

	id, _ := repo.Insert(ctx, testRecord())
	if err := repo.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	env := &amqp.Envelope{Kind: "sync", Sync: amqp.NewSyncMessage(id, 1)}
	if err := w.HandleEnvelope(ctx, env); err != nil {
		t.Fatalf("handle sync: %v", err)
	}

	rows, _ := sheet.ListRecords(ctx)
	if len(rows) != 0 {
		t.Errorf("deleted transaction reached the sheet: %+v", rows)
	}
}

func TestHandleDeleteMatchesByContent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// Sheet has an extra row before the target, so its remembered
	// position would be wrong; the content match must still find it.
	sheet := memory.New(
		sheets.Record{User: "sari", Date: "2024-02-01", Type: "Outcome", Category: "Makanan", Amount: "10000"},
		testRecord(),
	)
	w := NewSyncWorker(repo, sheet, 10)

	id, _ := repo.Insert(ctx, testRecord())
	repo.SoftDelete(ctx, id)

	rec := testRecord()
	env := &amqp.Envelope{Kind: "delete", Delete: &amqp.DeleteMessage{
		ID:       id,
		User:     rec.User,
		Date:     rec.Date,
		Type:     rec.Type,
		Category: rec.Category,
		Amount:   rec.Amount,
	}}
	if err := w.HandleEnvelope(ctx, env); err != nil {
		t.Fatalf("handle delete: %v", err)
	}

	rows, _ := sheet.ListRecords(ctx)
	if len(rows) != 1 {
		t.Fatalf("sheet rows = %d, want 1", len(rows))
	}
	if rows[0].User != "sari" {
		t.Errorf("wrong row deleted, remaining: %+v", rows[0])
	}
}

func TestHandleDeleteNoMatchStillResolves(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sheet := memory.New()
	w := NewSyncWorker(repo, sheet, 10)

	id, _ := repo.Insert(ctx, testRecord())
	repo.SoftDelete(ctx, id)

	env := &amqp.Envelope{Kind: "delete", Delete: &amqp.DeleteMessage{ID: id, User: "budi"}}
	if err := w.HandleEnvelope(ctx, env); err != nil {
		t.Fatalf("handle delete with no match: %v", err)
	}

	pending, _ := repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0 after resolved delete", len(pending))
	}
}

func TestHandleEnvelopeUnknownKind(t *testing.T) {
	w := NewSyncWorker(newTestRepo(t), memory.New(), 10)
	if err := w.HandleEnvelope(context.Background(), &amqp.Envelope{Kind: "nonsense"}); err == nil {
		t.Fatal("expected error for unknown envelope kind")
	}
}

func TestFlushPendingSweepsInsertsAndDeletes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sheet := memory.New()
	w := NewSyncWorker(repo, sheet, 10)

	// One row to append, one soft-deleted row that never made it to
	// the sheet.
	if _, err := repo.Insert(ctx, testRecord()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	other := sheets.Record{User: "sari", Date: "2024-03-02", Type: "Outcome", Category: "Makanan", Amount: "20000"}
	id2, _ := repo.Insert(ctx, other)
	repo.SoftDelete(ctx, id2)

	if err := w.FlushPending(ctx); err != nil {
		t.Fatalf("flush pending: %v", err)
	}

	rows, _ := sheet.ListRecords(ctx)
	if len(rows) != 1 {
		t.Fatalf("sheet rows = %d, want 1", len(rows))
	}
	if rows[0].User != "budi" {
		t.Errorf("sheet row = %+v, want budi's income", rows[0])
	}

	pending, _ := repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("pending after flush = %d, want 0", len(pending))
	}
}
