package models

import "time"

type Meal struct {
	Meta        `gorm:"embedded"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	EatenAt     time.Time `json:"eaten_at"`
}
