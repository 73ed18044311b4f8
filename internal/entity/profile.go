package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Profile stores per-user display settings.
type Profile struct {
	UserID       string         `gorm:"type:uuid;primaryKey" json:"user_id"`
	DisplayName  string         `json:"display_name"`
	RiskProfile  string         `json:"risk_profile"`
	BaseCurrency string         `gorm:"default:INR" json:"base_currency"`
	Preferences  datatypes.JSON `json:"preferences"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
