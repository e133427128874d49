package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communitySvc service.CommunityService
}

func NewCommunityHandler(communitySvc service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communitySvc: communitySvc,
	}
}

func (s *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateCommunityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	community, err := s.communitySvc.CreateCommunity(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, community)
}

func (s *CommunityHandler) GetCommunity(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	community, err := s.communitySvc.GetCommunity(c.Request.Context(), viewerID, slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, community)
}

func (s *CommunityHandler) ListCommunities(c *gin.Context) {
	page, size := parsePage(c)
	list, err := s.communitySvc.ListCommunities(c.Request.Context(), size, (page-1)*size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommunityHandler) JoinCommunity(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	if err := s.communitySvc.JoinCommunity(c.Request.Context(), userID, slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommunityHandler) LeaveCommunity(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	if err := s.communitySvc.LeaveCommunity(c.Request.Context(), userID, slug); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
