package models

import "time"

type Plan struct {
	Meta        `gorm:"embedded"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	TargetDate  time.Time `json:"target_date"`
	Completed   bool      `json:"completed"`
}
