package dto

// VoteDTO 投票请求体，vote_type 只接受 up / down
type VoteDTO struct {
	VoteType string `json:"vote_type" binding:"required,oneof=up down"`
}

// VoteResultDTO 投票结果，Score 为事务提交后的实体分数
type VoteResultDTO struct {
	Message string `json:"message"`
	Score   int64  `json:"score"`
}
