package model

import (
	"time"
)

type Community struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(100);not null"`
	Slug         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_slug"`
	Description  string `gorm:"type:varchar(500)"`
	CreatorID    uint64 `gorm:"not null;index:idx_communities_creator_id"`
	MembersCount int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Creator User `gorm:"foreignKey:CreatorID;references:ID"`
}

func (Community) TableName() string {
	return "communities"
}
