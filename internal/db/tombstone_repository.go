package db

import (
	"time"

	"github.com/haventide/wellspring/internal/models"
	"gorm.io/gorm"
)

type TombstoneRepository struct {
	database *gorm.DB
}

func NewTombstoneRepository(database *gorm.DB) *TombstoneRepository {
	return &TombstoneRepository{database: database}
}

func (repo *TombstoneRepository) Record(tombstone *models.Tombstone) error {
	return repo.database.Create(tombstone).Error
}

// DeletedIDs returns the IDs the user deleted locally for one kind,
// keyed to the deletion time.
func (repo *TombstoneRepository) DeletedIDs(userID string, kind models.Kind) (map[string]time.Time, error) {
	tombstones := make([]models.Tombstone, 0)
	err := repo.database.
		Where("user_id = ? AND kind = ?", userID, kind).
		Find(&tombstones).Error
	if err != nil {
		return nil, err
	}

	deleted := make(map[string]time.Time, len(tombstones))
	for _, tombstone := range tombstones {
		deleted[tombstone.RecordID] = tombstone.DeletedAt
	}
	return deleted, nil
}

// PruneOlderThan drops tombstones for one kind once they are older than
// the cutoff. Callers prune only after a fully successful sync, so a
// tombstone always survives long enough to reach the remote side.
func (repo *TombstoneRepository) PruneOlderThan(userID string, kind models.Kind, cutoff time.Time) error {
	return repo.database.
		Where("user_id = ? AND kind = ? AND deleted_at < ?", userID, kind, cutoff).
		Delete(&models.Tombstone{}).Error
}
