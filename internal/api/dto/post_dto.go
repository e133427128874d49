package dto

type CreatePostDTO struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=300"`
	Content     string `json:"content" binding:"omitempty,max=40000"`
	URL         string `json:"url" binding:"omitempty,url,max=500"`
	PostType    string `json:"post_type" binding:"omitempty,oneof=text link image"`
}

type PostDTO struct {
	PostID        uint64 `json:"post_id"`
	Title         string `json:"title"`
	Content       string `json:"content,omitempty"`
	URL           string `json:"url,omitempty"`
	PostType      string `json:"post_type"`
	Score         int64  `json:"score"`
	CommentsCount int    `json:"comments_count"`
	IsPinned      bool   `json:"is_pinned"`
	IsLocked      bool   `json:"is_locked"`

	UserID    uint64  `json:"user_id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	CommunityID   uint64 `json:"community_id"`
	CommunitySlug string `json:"community_slug,omitempty"`

	// 当前登录用户对该帖的投票方向，未投票或未登录为空
	UserVote string `json:"user_vote,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type PostListDTO struct {
	List    []*PostDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}
