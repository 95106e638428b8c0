package models

import "time"

type Run struct {
	Meta            `gorm:"embedded"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds int       `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
}

const (
	WorkoutIntensityLight    = "light"
	WorkoutIntensityModerate = "moderate"
	WorkoutIntensityHard     = "hard"
)

type Workout struct {
	Meta            `gorm:"embedded"`
	Name            string    `gorm:"not null" json:"name"`
	Category        string    `json:"category"`
	DurationSeconds int       `json:"duration_seconds"`
	Intensity       string    `json:"intensity"`
	StartedAt       time.Time `json:"started_at"`
}
