package db

import (
	"errors"

	"github.com/haventide/wellspring/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository struct {
	database *gorm.DB
}

func NewStreakRepository(database *gorm.DB) *StreakRepository {
	return &StreakRepository{database: database}
}

func (repo *StreakRepository) FindByUser(userID string) (models.Streak, bool, error) {
	var streak models.Streak
	err := repo.database.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Streak{}, false, nil
	}
	if err != nil {
		return models.Streak{}, false, err
	}
	return streak, true, nil
}

// Save upserts on user_id so a pulled remote streak can land over a row
// that was created under a different streak ID.
func (repo *StreakRepository) Save(streak *models.Streak) error {
	return repo.database.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(streak).Error
}
