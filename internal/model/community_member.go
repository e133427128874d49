package model

import (
	"time"
)

type CommunityMember struct {
	UserID      uint64    `gorm:"primaryKey" json:"userId"`
	CommunityID uint64    `gorm:"primaryKey;index:idx_members_community_id" json:"communityId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (CommunityMember) TableName() string {
	return "community_members"
}
