package models

import "time"

// Tombstone records a local deletion so the reconciler can tell "deleted
// here" apart from "never seen here". Without it a record removed on
// this device would be resurrected by the next pull.
type Tombstone struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind      Kind      `gorm:"index:idx_tombstones_record;not null" json:"kind"`
	RecordID  string    `gorm:"index:idx_tombstones_record;not null" json:"record_id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	DeletedAt time.Time `gorm:"not null" json:"deleted_at"`
}
