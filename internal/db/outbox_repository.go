package db

import (
	"time"

	"github.com/haventide/wellspring/internal/models"
	"gorm.io/gorm"
)

type OutboxRepository struct {
	database *gorm.DB
}

func NewOutboxRepository(database *gorm.DB) *OutboxRepository {
	return &OutboxRepository{database: database}
}

func (repo *OutboxRepository) Enqueue(entry *models.OutboxEntry) error {
	return repo.database.Create(entry).Error
}

// ListDue returns entries whose next attempt is at or before now, in
// insertion order. Replaying in insertion order keeps per-record
// create/update/delete sequences intact.
func (repo *OutboxRepository) ListDue(now time.Time, limit int) ([]models.OutboxEntry, error) {
	entries := make([]models.OutboxEntry, 0)
	query := repo.database.
		Where("next_attempt_at <= ?", now).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *OutboxRepository) Save(entry *models.OutboxEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *OutboxRepository) Remove(id uint) error {
	return repo.database.Delete(&models.OutboxEntry{}, id).Error
}

func (repo *OutboxRepository) CountPending(userID string) (int64, error) {
	var count int64
	err := repo.database.
		Model(&models.OutboxEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
