package worker

import (
	"context"
	"fmt"
	"log/slog"

	"keuangan/internal/amqp"
	"keuangan/internal/sheets"
	"keuangan/internal/storage"
)

// SyncWorker mirrors locally stored transactions to the spreadsheet:
// pending rows are appended, soft-deleted rows are removed from the
// sheet by content match against a fresh listing.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	store     sheets.RecordStore
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, store sheets.RecordStore, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		store:     store,
		batchSize: batchSize,
	}
}

// HandleEnvelope processes one message from the queue.
func (w *SyncWorker) HandleEnvelope(ctx context.Context, env *amqp.Envelope) error {
	switch env.Kind {
	case "sync":
		if env.Sync == nil {
			return fmt.Errorf("sync envelope without payload")
		}
		return w.syncByID(ctx, env.Sync.ID)
	case "delete":
		if env.Delete == nil {
			return fmt.Errorf("delete envelope without payload")
		}
		return w.deleteFromSheet(ctx, env.Delete)
	default:
		return fmt.Errorf("unknown envelope kind %q", env.Kind)
	}
}

func (w *SyncWorker) syncByID(ctx context.Context, id int64) error {
	st, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", id, err)
	}
	if st.Deleted {
		// The row was deleted before the sync message arrived; the
		// delete message will handle the sheet side.
		slog.InfoContext(ctx, "Skipping sync of deleted transaction", "id", id)
		return w.storage.MarkSynced(ctx, id)
	}

	if err := w.store.AppendRecord(ctx, st.Record); err != nil {
		if merr := w.storage.MarkSyncError(ctx, id); merr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", merr)
		}
		return fmt.Errorf("append transaction %d to sheet: %w", id, err)
	}
	return w.storage.MarkSynced(ctx, id)
}

// deleteFromSheet re-lists the sheet and deletes the first row whose
// content matches the message. Positions are always recomputed from
// the fresh listing; a remembered position would drift after any
// earlier delete.
func (w *SyncWorker) deleteFromSheet(ctx context.Context, msg *amqp.DeleteMessage) error {
	recs, err := w.store.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("list sheet records: %w", err)
	}
	for i, rec := range recs {
		if rec.User == msg.User && rec.Date == msg.Date && rec.Type == msg.Type &&
			rec.Category == msg.Category && rec.Amount == msg.Amount {
			row := i + sheets.HeaderOffset
			if err := w.store.DeleteRecord(ctx, row); err != nil {
				return fmt.Errorf("delete sheet row %d: %w", row, err)
			}
			slog.InfoContext(ctx, "Deleted transaction from sheet", "id", msg.ID, "row", row)
			return w.storage.MarkSynced(ctx, msg.ID)
		}
	}
	// Nothing to delete: the row never reached the sheet, or was
	// already removed.
	slog.WarnContext(ctx, "No matching sheet row for delete", "id", msg.ID, "user", msg.User)
	return w.storage.MarkSynced(ctx, msg.ID)
}

// FlushPending pushes up to batchSize pending rows. It backs the
// periodic sweep that catches rows whose sync message was lost.
func (w *SyncWorker) FlushPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "Flushing pending transactions", "count", len(pending))

	for _, st := range pending {
		var err error
		if st.Deleted {
			err = w.deleteFromSheet(ctx, &amqp.DeleteMessage{
				ID:       st.ID,
				User:     st.Record.User,
				Date:     st.Record.Date,
				Type:     st.Record.Type,
				Category: st.Record.Category,
				Amount:   st.Record.Amount,
			})
		} else {
			err = w.syncByID(ctx, st.ID)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to flush transaction", "id", st.ID, "error", err)
		}
	}
	return nil
}
