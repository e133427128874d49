package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_username"`
	Email     string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_email"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Bio       *string `gorm:"type:varchar(500)"`
	AvatarURL *string `gorm:"type:varchar(255)"`
	// Karma 是声望缓存字段，真实来源是 karma_transactions，
	// 只允许投票事务与对账任务写入
	Karma     int64 `gorm:"not null;default:0;index:idx_users_karma"`
	IsDeleted bool  `gorm:"type:tinyint(1);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
