package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/response"
	"Agora/internal/repository"
	"Agora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc    service.PostService
	commentSvc service.CommentService
}

func NewPostHandler(postSvc service.PostService, commentSvc service.CommentService) *PostHandler {
	return &PostHandler{
		postSvc:    postSvc,
		commentSvc: commentSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	post, err := s.postSvc.GetPost(c.Request.Context(), viewerID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// ListPosts 帖子流，支持 community_id / user_id 过滤与 new / top / hot 排序
func (s *PostHandler) ListPosts(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	communityID, _ := strconv.ParseUint(c.Query("community_id"), 10, 64)
	authorID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	page, size := parsePage(c)

	q := &repository.PostQuery{
		CommunityID:   communityID,
		CommunitySlug: c.Query("community"),
		AuthorID:      authorID,
		Sort:          c.DefaultQuery("sort", "new"),
		Limit:         size,
		Offset:        (page - 1) * size,
	}
	list, err := s.postSvc.ListPosts(c.Request.Context(), viewerID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetComments 帖子的两层评论树
func (s *PostHandler) GetComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	page, size := parsePage(c)

	tree, err := s.commentSvc.GetCommentTree(c.Request.Context(), viewerID, postID, size, (page-1)*size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tree)
}

func parsePage(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(consts.DefaultPageSize)))
	if size < 1 {
		size = consts.DefaultPageSize
	}
	if size > consts.MaxPageSize {
		size = consts.MaxPageSize
	}
	return page, size
}
