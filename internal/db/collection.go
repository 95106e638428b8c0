package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection is the store for one content table. Every content record
// embeds models.Meta, so the id, user_id and created_at columns queried
// here exist for any T the agent or server instantiates.
type Collection[T any] struct {
	database *gorm.DB
}

func NewCollection[T any](database *gorm.DB) *Collection[T] {
	return &Collection[T]{database: database}
}

// Insert stores a brand new record. The caller is responsible for
// stamping ID and timestamps first.
func (collection *Collection[T]) Insert(record *T) error {
	return collection.database.Create(record).Error
}

// Update overwrites the row matching the record's primary key.
func (collection *Collection[T]) Update(record *T) error {
	return collection.database.Save(record).Error
}

// Upsert inserts the record or, when a row with the same ID already
// exists, overwrites it wholesale. Timestamps are written exactly as
// given; the sync paths rely on that to carry remote values through.
func (collection *Collection[T]) Upsert(record *T) error {
	return collection.database.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
}

// Delete removes the row by ID and reports whether a row was present.
func (collection *Collection[T]) Delete(id string) (bool, error) {
	var record T
	result := collection.database.Where("id = ?", id).Delete(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (collection *Collection[T]) FindByID(id string) (T, bool, error) {
	var record T
	err := collection.database.Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, false, nil
	}
	if err != nil {
		return record, false, err
	}
	return record, true, nil
}

func (collection *Collection[T]) ListByUser(userID string) ([]T, error) {
	records := make([]T, 0)
	err := collection.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByUserRange returns the user's records created in [start, end),
// oldest first.
func (collection *Collection[T]) ListByUserRange(userID string, start time.Time, end time.Time) ([]T, error) {
	records := make([]T, 0)
	err := collection.database.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ExistsByUserRange reports whether the user created at least one record
// in [start, end) without loading more than a single row.
func (collection *Collection[T]) ExistsByUserRange(userID string, start time.Time, end time.Time) (bool, error) {
	records := make([]T, 0, 1)
	result := collection.database.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Limit(1).
		Find(&records)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (collection *Collection[T]) CountByUser(userID string) (int64, error) {
	var record T
	var count int64
	err := collection.database.
		Model(&record).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
