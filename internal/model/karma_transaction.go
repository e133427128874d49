package model

import (
	"time"
)

// 声望流水 reason 取值
const (
	ReasonPostUpvote             = "post_upvote"
	ReasonPostDownvote           = "post_downvote"
	ReasonPostUpvoteRemoved      = "post_upvote_removed"
	ReasonPostDownvoteRemoved    = "post_downvote_removed"
	ReasonCommentUpvote          = "comment_upvote"
	ReasonCommentDownvote        = "comment_downvote"
	ReasonCommentUpvoteRemoved   = "comment_upvote_removed"
	ReasonCommentDownvoteRemoved = "comment_downvote_removed"
)

// KarmaTransaction 声望流水，只追加不修改，
// 创建后没有任何代码路径会 update 或 delete 这张表
type KarmaTransaction struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"not null;index:idx_karma_tx_user_created,priority:1" json:"user_id"`
	Delta  int64  `gorm:"not null" json:"delta"`
	Reason string `gorm:"type:varchar(30);not null" json:"reason"`
	// 审计用的实体引用，指向触发本次变动的帖子或评论
	EntityKind EntityKind `gorm:"type:varchar(10);not null" json:"entity_kind"`
	EntityID   uint64     `gorm:"not null" json:"entity_id"`
	CreatedAt  time.Time  `gorm:"index:idx_karma_tx_user_created,priority:2;index:idx_karma_tx_created_at" json:"created_at"`
}

func (KarmaTransaction) TableName() string {
	return "karma_transactions"
}
