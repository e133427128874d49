package dto

type CreateCommentDTO struct {
	PostID   uint64 `json:"post_id" binding:"required"`
	ParentID uint64 `json:"parent_id"`
	Content  string `json:"content" binding:"required,max=10000"`
}

type CommentDTO struct {
	CommentID uint64  `json:"comment_id"`
	PostID    uint64  `json:"post_id"`
	ParentID  uint64  `json:"parent_id"`
	Content   string  `json:"content"`
	Score     int64   `json:"score"`
	UserID    uint64  `json:"user_id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	UserVote  string  `json:"user_vote,omitempty"`
	CreatedAt string  `json:"created_at"`

	Replies []*CommentDTO `json:"replies,omitempty"`
}
