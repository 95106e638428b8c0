package models

// Share publishes one of the user's own records to their circle. RefKind
// and RefID point at the shared record; the share itself syncs like any
// other content record.
type Share struct {
	Meta    `gorm:"embedded"`
	RefKind Kind   `gorm:"not null" json:"ref_kind"`
	RefID   string `gorm:"not null" json:"ref_id"`
	Caption string `json:"caption"`
}

type Comment struct {
	Meta    `gorm:"embedded"`
	ShareID string `gorm:"index;not null" json:"share_id"`
	Body    string `gorm:"not null" json:"body"`
}
