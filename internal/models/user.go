package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                     uint                    `gorm:"primaryKey" json:"user_id"`
	TelegramID             *int64                  `gorm:"uniqueIndex" json:"telegram_id,omitempty"`
	FullName               string                  `gorm:"type:varchar(255);not null" json:"full_name"`
	ValueProfile           ValueProfile            `gorm:"serializer:json;type:jsonb" json:"value_profile"`
	EnvironmentPreferences *EnvironmentPreferences `gorm:"serializer:json;type:jsonb" json:"environment_preferences"`
	GameCompleted          bool                    `gorm:"default:false;not null" json:"game_completed"`
	LastActivity           time.Time               `gorm:"default:CURRENT_TIMESTAMP" json:"-"`
	CreatedAt              time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time               `gorm:"autoUpdateTime" json:"-"`
}

// HasProfile reports whether the user finished the value game.
func (u *User) HasProfile() bool {
	return len(u.ValueProfile) > 0
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.FullName == "" {
		return gorm.ErrInvalidData
	}

	// Profile scores are fractions of the rounds played
	if !u.ValueProfile.InRange() {
		return gorm.ErrInvalidData
	}

	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// GameResponse is one submitted selection; a re-submission replaces the whole set.
type GameResponse struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;index:idx_game_response_user"`
	RoundNumber  int       `gorm:"not null"`
	SelectedWord string    `gorm:"type:varchar(64);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (GameResponse) TableName() string {
	return "game_responses"
}
