package models

type Note struct {
	Meta  `gorm:"embedded"`
	Title string `gorm:"not null" json:"title"`
	Body  string `json:"body"`
}
