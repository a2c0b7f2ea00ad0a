package models

import (
	"time"
)

// UserAction is an append-only feedback record. Only skips affect ranking.
type UserAction struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index:idx_user_action_lookup"`
	CandidateKind string    `gorm:"type:varchar(16);not null;index:idx_user_action_lookup"`
	CandidateID   string    `gorm:"type:varchar(32);not null"`
	Action        string    `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// Candidate kinds
const (
	KindCommunity = "community"
	KindEvent     = "event"
)

// Action types
const (
	ActionJoin   = "join"
	ActionLeave  = "leave"
	ActionAttend = "attend"
	ActionCancel = "cancel"
	ActionSkip   = "skip"
)

// ValidAction reports whether action is one of the recorded action types.
func ValidAction(action string) bool {
	switch action {
	case ActionJoin, ActionLeave, ActionAttend, ActionCancel, ActionSkip:
		return true
	}
	return false
}

func (UserAction) TableName() string {
	return "user_actions"
}
