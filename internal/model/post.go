package model

import (
	"time"
)

const (
	PostTypeText  = "text"
	PostTypeLink  = "link"
	PostTypeImage = "image"
)

type Post struct {
	ID          uint64 `gorm:"primaryKey"`
	UserID      uint64 `gorm:"not null;index:idx_posts_user_id" json:"user_id"`
	CommunityID uint64 `gorm:"not null;index:idx_posts_community_id" json:"community_id"`
	Title       string `gorm:"type:varchar(300);not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	URL         string `gorm:"type:varchar(500)" json:"url"`
	PostType    string `gorm:"type:varchar(10);not null;default:text" json:"post_type"`
	// Score 等于当前生效投票的有符号计数（#up − #down），
	// 与投票行的增删改在同一事务内更新
	Score         int64     `gorm:"not null;default:0;index:idx_posts_score" json:"score"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	IsPinned      bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_pinned"`
	IsLocked      bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_locked"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联关系
	User      User      `gorm:"foreignKey:UserID;references:ID"`
	Community Community `gorm:"foreignKey:CommunityID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}
