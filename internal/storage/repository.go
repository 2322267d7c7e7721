package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"keuangan/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is a local-first mirror of the ledger sheet. The
// HTTP server reads and writes it directly; the sync worker pushes
// pending rows to the spreadsheet afterwards. Raw cells are stored as
// text, matching the sheet contract.
type SQLiteRepository struct {
	db *sql.DB
}

var _ sheets.RecordStore = (*SQLiteRepository)(nil)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListRecords implements sheets.RecordLister. Rows come back in
// insertion order, soft-deleted rows excluded, so positions computed
// from the listing match what a fresh sheet listing would give.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]sheets.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user, tx_date, tx_type, category, amount, notes
		FROM transactions
		WHERE deleted = 0
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []sheets.Record
	for rows.Next() {
		var rec sheets.Record
		if err := rows.Scan(&rec.User, &rec.Date, &rec.Type, &rec.Category, &rec.Amount, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// AppendRecord implements sheets.RecordAppender. New rows start in
// sync_status pending for the worker to pick up.
func (r *SQLiteRepository) AppendRecord(ctx context.Context, rec sheets.Record) error {
	id, err := r.insert(ctx, rec)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user", rec.User,
		"type", rec.Type,
		"category", rec.Category)
	return nil
}

// Insert stores a record and returns its surrogate id, for callers
// that need the id to publish a sync message.
func (r *SQLiteRepository) Insert(ctx context.Context, rec sheets.Record) (int64, error) {
	return r.insert(ctx, rec)
}

func (r *SQLiteRepository) insert(ctx context.Context, rec sheets.Record) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user, tx_date, tx_type, category, amount, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.User, rec.Date, rec.Type, rec.Category, rec.Amount, rec.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// DeleteRecord implements sheets.RecordDeleter. The 1-based position
// is resolved against the current listing order, mirroring how a
// positional delete lands on the sheet.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, row int) error {
	offset := row - sheets.HeaderOffset
	if offset < 0 {
		return fmt.Errorf("delete row %d: out of range", row)
	}
	id, err := r.idAtOffset(ctx, offset)
	if err != nil {
		return err
	}
	return r.SoftDelete(ctx, id)
}

// TransactionAtRow resolves a 1-based listing position to the stored
// row it currently denotes.
func (r *SQLiteRepository) TransactionAtRow(ctx context.Context, row int) (*StoredTransaction, error) {
	offset := row - sheets.HeaderOffset
	if offset < 0 {
		return nil, fmt.Errorf("row %d: out of range", row)
	}
	id, err := r.idAtOffset(ctx, offset)
	if err != nil {
		return nil, err
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) idAtOffset(ctx context.Context, offset int) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM transactions
		WHERE deleted = 0
		ORDER BY id
		LIMIT 1 OFFSET ?`, offset).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("delete offset %d: %w", offset, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve row position: %w", err)
	}
	return id, nil
}

// SoftDelete marks a transaction deleted without removing the row, so
// the sync worker can still propagate the delete to the sheet.
func (r *SQLiteRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET deleted = 1, sync_status = 'pending', version = version + 1
		WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction soft-deleted", "id", id)
	return nil
}

// StoredTransaction is a mirrored row with its sync bookkeeping.
type StoredTransaction struct {
	ID        int64
	Record    sheets.Record
	Deleted   bool
	Version   int64
	CreatedAt time.Time
}

// GetTransaction retrieves a single row by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*StoredTransaction, error) {
	var (
		st        StoredTransaction
		deleted   int
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user, tx_date, tx_type, category, amount, notes, deleted, version, created_at
		FROM transactions
		WHERE id = ?`, id).Scan(
		&st.ID, &st.Record.User, &st.Record.Date, &st.Record.Type,
		&st.Record.Category, &st.Record.Amount, &st.Record.Notes,
		&deleted, &st.Version, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	st.Deleted = deleted != 0
	if t, perr := time.Parse("2006-01-02 15:04:05", createdAt); perr == nil {
		st.CreatedAt = t
	}
	return &st, nil
}

// GetPendingSync returns up to limit rows waiting to be pushed to the
// sheet, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]StoredTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user, tx_date, tx_type, category, amount, notes, deleted, version
		FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []StoredTransaction
	for rows.Next() {
		var (
			st      StoredTransaction
			deleted int
		)
		if err := rows.Scan(&st.ID, &st.Record.User, &st.Record.Date, &st.Record.Type,
			&st.Record.Category, &st.Record.Amount, &st.Record.Notes, &deleted, &st.Version); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		st.Deleted = deleted != 0
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending: %w", err)
	}
	return out, nil
}

// MarkSynced marks a transaction as successfully pushed to the sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having failed to sync.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
