package models

import "time"

const (
	SettingDeviceID  = "device_id"
	SettingUserID    = "user_id"
	SettingUserEmail = "user_email"
	SettingAPIToken  = "api_token"
)

// Setting is one key/value row of device-local agent state.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}
