package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/response"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteSvc service.VoteService
}

func NewVoteHandler(voteSvc service.VoteService) *VoteHandler {
	return &VoteHandler{
		voteSvc: voteSvc,
	}
}

// VotePost 对帖子投票，重复投同方向视为撤票
func (s *VoteHandler) VotePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.voteSvc.Vote(c.Request.Context(), userID, model.EntityPost, postID, model.VoteType(req.VoteType))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// VoteComment 对评论投票，状态机与帖子一致
func (s *VoteHandler) VoteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.voteSvc.Vote(c.Request.Context(), userID, model.EntityComment, commentID, model.VoteType(req.VoteType))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
