package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OutboxOpCreate = "create"
	OutboxOpUpdate = "update"
	OutboxOpDelete = "delete"
	OutboxOpUpsert = "upsert"
)

// OutboxEntry is one pending remote write. Mutations commit locally and
// enqueue an entry; a background drainer replays entries against the
// remote API in insertion order.
type OutboxEntry struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string          `gorm:"index;not null" json:"user_id"`
	Kind          Kind            `gorm:"not null" json:"kind"`
	Op            string          `gorm:"not null" json:"op"`
	RecordID      string          `gorm:"not null" json:"record_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Attempts      int             `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time       `gorm:"index" json:"next_attempt_at"`
	LastError     string          `json:"last_error,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false" json:"created_at"`
}

// NewOutboxEntry marshals the record into a wire-ready payload. Delete
// entries carry no payload, only the record ID.
func NewOutboxEntry(kind Kind, op string, userID string, recordID string, record any, now time.Time) (OutboxEntry, error) {
	entry := OutboxEntry{
		UserID:        userID,
		Kind:          kind,
		Op:            op,
		RecordID:      recordID,
		NextAttemptAt: now,
		CreatedAt:     now,
	}

	if record != nil {
		payload, err := json.Marshal(record)
		if err != nil {
			return OutboxEntry{}, fmt.Errorf("marshal %s %s payload: %w", kind, op, err)
		}
		entry.Payload = payload
	}

	return entry, nil
}
