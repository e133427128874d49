package dto

type CreateCommunityDTO struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type CommunityDTO struct {
	CommunityID  uint64 `json:"community_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	CreatorID    uint64 `json:"creator_id"`
	MembersCount int    `json:"members_count"`
	IsMember     bool   `json:"is_member"`
	CreatedAt    string `json:"created_at"`
}
