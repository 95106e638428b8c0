package db

import (
	"errors"
	"time"

	"github.com/haventide/wellspring/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository backs the agent's device-local key/value state.
type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

func (repo *SettingsRepository) Get(key string) (string, bool, error) {
	var setting models.Setting
	err := repo.database.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

func (repo *SettingsRepository) Set(key string, value string) error {
	setting := models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return repo.database.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&setting).Error
}

func (repo *SettingsRepository) Unset(key string) error {
	return repo.database.Where("key = ?", key).Delete(&models.Setting{}).Error
}
