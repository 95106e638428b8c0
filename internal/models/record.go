package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies one syncable content collection.
type Kind string

const (
	KindNote    Kind = "note"
	KindPrayer  Kind = "prayer"
	KindMeal    Kind = "meal"
	KindJournal Kind = "journal"
	KindPlan    Kind = "plan"
	KindShare   Kind = "share"
	KindComment Kind = "comment"
	KindRun     Kind = "run"
	KindWorkout Kind = "workout"

	// KindStreak is used on outbox entries only; streaks are not a
	// content collection and never go through the reconciler.
	KindStreak Kind = "streak"
)

// ContentKinds lists every collection that participates in sync, in the
// order collections are reconciled.
var ContentKinds = []Kind{
	KindNote,
	KindPrayer,
	KindMeal,
	KindJournal,
	KindPlan,
	KindShare,
	KindComment,
	KindRun,
	KindWorkout,
}

func (kind Kind) Valid() bool {
	for _, known := range ContentKinds {
		if kind == known {
			return true
		}
	}
	return false
}

// Record is the read surface shared by every content record.
type Record interface {
	RecordID() string
	OwnerID() string
	CreatedTime() time.Time
	UpdatedTime() time.Time
}

// Mutable extends Record with the stamping hooks the write paths need.
// It is satisfied by pointers to content records.
type Mutable interface {
	Record
	StampNew(now time.Time)
	Touch(now time.Time)
	AssignOwner(userID string)
}

// MutablePtr pins a type parameter to "pointer to content record" so
// generic code can both allocate T and stamp it through the pointer.
type MutablePtr[T any] interface {
	*T
	Mutable
}

// Meta is embedded by every content record. Timestamps are assigned by
// the caller, never by gorm; records pulled from another device keep
// their original CreatedAt and UpdatedAt.
type Meta struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (meta Meta) RecordID() string { return meta.ID }

func (meta Meta) OwnerID() string { return meta.UserID }

func (meta Meta) CreatedTime() time.Time { return meta.CreatedAt }

func (meta Meta) UpdatedTime() time.Time { return meta.UpdatedAt }

// StampNew assigns an ID when the record has none yet and sets both
// timestamps to now.
func (meta *Meta) StampNew(now time.Time) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	meta.CreatedAt = now
	meta.UpdatedAt = now
}

// Touch refreshes UpdatedAt ahead of an edit.
func (meta *Meta) Touch(now time.Time) {
	meta.UpdatedAt = now
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
}

// AssignOwner fills in the owner for records that arrive without one.
func (meta *Meta) AssignOwner(userID string) {
	meta.UserID = userID
}
