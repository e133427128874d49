package model

import (
	"time"
)

type Comment struct {
	ID       uint64 `gorm:"primaryKey"`
	PostID   uint64 `gorm:"not null;index:idx_comments_post_id" json:"post_id"`
	UserID   uint64 `gorm:"not null;index:idx_comments_user_id" json:"user_id"`
	ParentID uint64 `gorm:"not null;default:0;index:idx_comments_parent_id" json:"parent_id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	// Score 与投票行的增删改在同一事务内更新，语义同 Post.Score
	Score     int64     `gorm:"not null;default:0" json:"score"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Comment) TableName() string {
	return "comments"
}
