package services

import (
	"context"
	"fmt"
	"log/slog"

	"keuangan/internal/amqp"
	"keuangan/internal/sheets"
	"keuangan/internal/storage"
)

// LedgerService is the local-first record store: writes land in SQLite
// immediately and a sync message is published so the worker mirrors
// them to the spreadsheet. Reads are served from SQLite alone.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

var _ sheets.RecordStore = (*LedgerService)(nil)

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// ListRecords implements sheets.RecordLister.
func (s *LedgerService) ListRecords(ctx context.Context) ([]sheets.Record, error) {
	return s.storage.ListRecords(ctx)
}

// AppendRecord saves the row locally and publishes a sync message. A
// publish failure is logged, not returned: the row is safe in SQLite
// and the periodic flush will pick it up.
func (s *LedgerService) AppendRecord(ctx context.Context, rec sheets.Record) error {
	id, err := s.storage.Insert(ctx, rec)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "id", id)
		return nil
	}
	if err := s.amqpClient.PublishSync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
	return nil
}

// DeleteRecord soft-deletes the row at the given position and
// publishes a delete message carrying the row fields, so the worker
// can find the matching sheet row in a fresh listing.
func (s *LedgerService) DeleteRecord(ctx context.Context, row int) error {
	st, err := s.storage.TransactionAtRow(ctx, row)
	if err != nil {
		return fmt.Errorf("resolve row %d: %w", row, err)
	}
	if err := s.storage.SoftDelete(ctx, st.ID); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message", "id", st.ID)
		return nil
	}
	msg := &amqp.DeleteMessage{
		ID:       st.ID,
		User:     st.Record.User,
		Date:     st.Record.Date,
		Type:     st.Record.Type,
		Category: st.Record.Category,
		Amount:   st.Record.Amount,
	}
	if err := s.amqpClient.PublishDelete(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", st.ID, "error", err)
	}
	return nil
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
