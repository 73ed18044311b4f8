package entity

import (
	"time"

	"github.com/lib/pq"
)

// UserOnboarding records the onboarding questionnaire state for a user.
type UserOnboarding struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ExperienceLevel string         `json:"experience_level"`
	Goals           pq.StringArray `gorm:"type:text[]" json:"goals"`
	Completed       bool           `gorm:"not null;default:false" json:"completed"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the UserOnboarding model.
func (UserOnboarding) TableName() string {
	return "user_onboarding"
}
