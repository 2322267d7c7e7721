package sheets

import "context"

// HeaderOffset converts a zero-based record index into the 1-based
// sheet row it occupies: one header row plus 1-based counting.
const HeaderOffset = 2

// Record is one raw ledger row as stored in the backing sheet, columns
// A:F. All cells are uninterpreted strings; parsing happens in the
// repository.
type Record struct {
	User     string
	Date     string
	Type     string
	Category string
	Amount   string
	Notes    string
}

// Ports for outbound adapters.
type (
	RecordLister interface {
		// ListRecords returns every data row in insertion order,
		// most-recently-appended last.
		ListRecords(ctx context.Context) ([]Record, error)
	}

	RecordAppender interface {
		AppendRecord(ctx context.Context, rec Record) error
	}

	RecordDeleter interface {
		// DeleteRecord removes the row at the given 1-based sheet
		// position (record index + HeaderOffset). Positions of later
		// rows shift; callers must re-list before issuing another
		// delete.
		DeleteRecord(ctx context.Context, row int) error
	}

	// RecordStore is the full contract of a tabular backing store.
	RecordStore interface {
		RecordLister
		RecordAppender
		RecordDeleter
	}
)
