package db

import (
	"github.com/haventide/wellspring/internal/models"
	"gorm.io/gorm"
)

// Repositories bundles every store over one database handle. The agent
// uses all of it; the server skips Settings and Outbox but shares the
// rest so both sides store records identically.
type Repositories struct {
	Users    *UserRepository
	Notes    *Collection[models.Note]
	Prayers  *Collection[models.Prayer]
	Meals    *Collection[models.Meal]
	Journals *Collection[models.Journal]
	Plans    *Collection[models.Plan]
	Shares   *Collection[models.Share]
	Comments *Collection[models.Comment]
	Runs     *Collection[models.Run]
	Workouts *Collection[models.Workout]

	Streaks    *StreakRepository
	Outbox     *OutboxRepository
	Tombstones *TombstoneRepository
	Settings   *SettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Notes:    NewCollection[models.Note](database),
		Prayers:  NewCollection[models.Prayer](database),
		Meals:    NewCollection[models.Meal](database),
		Journals: NewCollection[models.Journal](database),
		Plans:    NewCollection[models.Plan](database),
		Shares:   NewCollection[models.Share](database),
		Comments: NewCollection[models.Comment](database),
		Runs:     NewCollection[models.Run](database),
		Workouts: NewCollection[models.Workout](database),

		Streaks:    NewStreakRepository(database),
		Outbox:     NewOutboxRepository(database),
		Tombstones: NewTombstoneRepository(database),
		Settings:   NewSettingsRepository(database),
	}
}
