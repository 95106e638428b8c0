package models

const (
	MoodGrateful   = "grateful"
	MoodPeaceful   = "peaceful"
	MoodStruggling = "struggling"
	MoodJoyful     = "joyful"
)

type Journal struct {
	Meta  `gorm:"embedded"`
	Title string `json:"title"`
	Body  string `gorm:"not null" json:"body"`
	Mood  string `json:"mood"`
}
