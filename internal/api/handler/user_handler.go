package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/response"
	"Agora/internal/service"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	token, user, err := s.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetMe 当前登录用户信息
func (s *UserHandler) GetMe(c *gin.Context) {
	userID := c.GetUint64("user_id")
	user, err := s.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// GetProfile 查看任意用户的公开资料，路径参数兼容数字 ID 与用户名
func (s *UserHandler) GetProfile(c *gin.Context) {
	param := c.Param("user_id")

	if userID, err := strconv.ParseUint(param, 10, 64); err == nil && userID > 0 {
		user, err := s.userSvc.GetProfile(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, user)
		return
	}

	user, err := s.userSvc.GetProfileByUsername(c.Request.Context(), param)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if fileHeader.Size > maxAvatarSize {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	url, err := s.userSvc.UploadAvatar(c.Request.Context(), userID,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"avatar_url": url})
}
