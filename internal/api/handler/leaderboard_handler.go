package handler

import (
	"Agora/internal/pkg/response"
	"Agora/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	karmaSvc service.KarmaService
}

func NewLeaderboardHandler(karmaSvc service.KarmaService) *LeaderboardHandler {
	return &LeaderboardHandler{
		karmaSvc: karmaSvc,
	}
}

// GetLeaderboard 声望排行榜。
// 不带 window 参数返回全时段榜；window 形如 24h / 7h30m / 90m
func (s *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	windowText := c.Query("window")
	if windowText == "" {
		result, err := s.karmaSvc.TopAllTime(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	window, err := time.ParseDuration(windowText)
	if err != nil || window <= 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.karmaSvc.TopWindowed(c.Request.Context(), window, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
