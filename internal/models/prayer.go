package models

import "time"

const (
	PrayerCategoryPetition     = "petition"
	PrayerCategoryThanksgiving = "thanksgiving"
	PrayerCategoryIntercession = "intercession"
)

type Prayer struct {
	Meta       `gorm:"embedded"`
	Title      string     `gorm:"not null" json:"title"`
	Body       string     `json:"body"`
	Category   string     `json:"category"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

func (prayer Prayer) Answered() bool {
	return prayer.AnsweredAt != nil && !prayer.AnsweredAt.IsZero()
}
