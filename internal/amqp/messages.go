package amqp

import (
	"encoding/json"
	"time"
)

// SyncMessage asks the worker to push one locally stored transaction
// to the spreadsheet. It carries only the id and version; the worker
// fetches the full row from the database.
type SyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// DeleteMessage asks the worker to remove a transaction's row from the
// spreadsheet. It carries the row fields so the worker can locate the
// row by content in a fresh listing; sheet positions are never sent,
// they go stale the moment any earlier row is deleted.
type DeleteMessage struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Envelope wraps both message kinds on the wire.
type Envelope struct {
	Kind   string         `json:"kind"` // "sync" | "delete"
	Sync   *SyncMessage   `json:"sync,omitempty"`
	Delete *DeleteMessage `json:"delete,omitempty"`
}

func NewSyncMessage(id, version int64) *SyncMessage {
	return &SyncMessage{ID: id, Version: version, Timestamp: time.Now()}
}

func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
