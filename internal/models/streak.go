package models

import "time"

// Streak tracks consecutive days of recorded activity. There is at most
// one row per user, created the first time activity is recorded and
// never deleted afterwards, only reset to zero.
type Streak struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Count        int       `gorm:"not null;default:0" json:"count"`
	LongestCount int       `gorm:"not null;default:0" json:"longest_count"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}
