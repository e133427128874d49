package model

import (
	"time"
)

// VoteType 投票方向
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// EntityKind 可投票实体类型
type EntityKind string

const (
	EntityPost    EntityKind = "post"
	EntityComment EntityKind = "comment"
)

// PostVote 帖子投票关系，复合主键保证同一 (用户, 帖子) 至多一票
type PostVote struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	PostID    uint64    `gorm:"primaryKey;index:idx_post_votes_post_id" json:"postId"`
	VoteType  VoteType  `gorm:"type:varchar(4);not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostVote) TableName() string {
	return "post_votes"
}

// CommentVote 评论投票关系，约束同 PostVote
type CommentVote struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	CommentID uint64    `gorm:"primaryKey;index:idx_comment_votes_comment_id" json:"commentId"`
	VoteType  VoteType  `gorm:"type:varchar(4);not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
