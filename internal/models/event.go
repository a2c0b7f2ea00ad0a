package models

import (
	"time"
)

type Event struct {
	ID            string       `gorm:"primaryKey;type:varchar(32)" json:"event_id"`
	Name          string       `gorm:"type:varchar(255);not null" json:"name"`
	Description   string       `gorm:"type:text" json:"description"`
	EventType     string       `gorm:"type:varchar(50);not null" json:"event_type"` // workshop, meetup, conference, social
	Date          time.Time    `gorm:"not null;index" json:"date"`
	Location      string       `gorm:"type:varchar(255)" json:"location"`
	Image         string       `gorm:"type:varchar(500)" json:"image,omitempty"`
	CreatorID     uint         `gorm:"not null;index" json:"creator_id"`
	AttendeeCount int          `gorm:"default:0;not null" json:"attendee_count"`
	ValueProfile  ValueProfile `gorm:"serializer:json;type:jsonb" json:"value_profile"`
	Tags          []string     `gorm:"serializer:json;type:jsonb" json:"tags"`
	Attendees     []uint       `gorm:"-" json:"attendees,omitempty"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"-"`
}

type EventAttendee struct {
	ID       uint      `gorm:"primaryKey"`
	EventID  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_event_attendee"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_event_attendee;index"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
	Event    Event     `gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
