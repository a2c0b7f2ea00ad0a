package models

import (
	"time"
)

type Community struct {
	ID                  string            `gorm:"primaryKey;type:varchar(32)" json:"community_id"`
	Name                string            `gorm:"type:varchar(255);not null" json:"name"`
	Description         string            `gorm:"type:text" json:"description"`
	Image               string            `gorm:"type:varchar(500)" json:"image,omitempty"`
	Category            string            `gorm:"type:varchar(100)" json:"category,omitempty"`
	CreatorID           uint              `gorm:"not null;index" json:"creator_id"`
	MemberCount         int               `gorm:"default:0;not null" json:"member_count"`
	ValueProfile        ValueProfile      `gorm:"serializer:json;type:jsonb" json:"value_profile"`
	EnvironmentSettings map[string]string `gorm:"serializer:json;type:jsonb" json:"environment_settings"`
	Members             []uint            `gorm:"-" json:"members,omitempty"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"-"`
}

type CommunityMember struct {
	ID          uint      `gorm:"primaryKey"`
	CommunityID string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_community_member"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_community_member;index"`
	Role        string    `gorm:"type:varchar(20);default:'member'"` // creator, member
	JoinedAt    time.Time `gorm:"autoCreateTime"`
	Community   Community `gorm:"foreignKey:CommunityID"`
}

const (
	CommunityRoleCreator = "creator"
	CommunityRoleMember  = "member"
)

func (Community) TableName() string {
	return "communities"
}

func (CommunityMember) TableName() string {
	return "community_members"
}
