package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/minio"
	"Agora/internal/repository"
	"context"
	"fmt"
	"time"
)

// KarmaService 声望榜单查询。
// 全时段榜直接读用户表缓存列；时间窗榜单对流水表实时聚合，
// 窗口起点按查询时刻滑动计算，不做物化
type KarmaService interface {
	TopAllTime(ctx context.Context, limit int) (*dto.LeaderboardDTO, error)
	TopWindowed(ctx context.Context, window time.Duration, limit int) (*dto.LeaderboardDTO, error)
}

type karmaServiceImpl struct {
	karmaRepo repository.KarmaRepo
	userRepo  repository.UserRepo
}

func NewKarmaService(karmaRepo repository.KarmaRepo, userRepo repository.UserRepo) KarmaService {
	return &karmaServiceImpl{karmaRepo: karmaRepo, userRepo: userRepo}
}

func (s *karmaServiceImpl) TopAllTime(ctx context.Context, limit int) (*dto.LeaderboardDTO, error) {
	limit = clampLimit(limit)

	users, err := s.userRepo.ListTopByKarma(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryDTO, 0, len(users))
	for i, u := range users {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:      i + 1,
			UserID:    u.ID,
			Username:  u.Username,
			AvatarURL: avatarURL(u.AvatarURL),
			Karma:     u.Karma,
		})
	}
	return &dto.LeaderboardDTO{
		Period:      "all_time",
		GeneratedAt: time.Now(),
		Leaderboard: entries,
	}, nil
}

func (s *karmaServiceImpl) TopWindowed(ctx context.Context, window time.Duration, limit int) (*dto.LeaderboardDTO, error) {
	if window <= 0 {
		return nil, ErrParamInvalid
	}
	limit = clampLimit(limit)

	cutoff := time.Now().Add(-window)
	rows, err := s.karmaRepo.SumDeltasSince(ctx, cutoff, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:      i + 1,
			UserID:    row.UserID,
			Username:  row.Username,
			AvatarURL: avatarURL(row.AvatarURL),
			Karma:     row.Karma,
		})
	}
	return &dto.LeaderboardDTO{
		Period:      formatWindow(window),
		GeneratedAt: time.Now(),
		Leaderboard: entries,
	}, nil
}

// clampLimit 收敛榜单长度到 [1, 100]，缺省 10
func clampLimit(limit int) int {
	if limit <= 0 {
		return consts.LeaderboardDefaultLimit
	}
	if limit > consts.LeaderboardMaxLimit {
		return consts.LeaderboardMaxLimit
	}
	return limit
}

// formatWindow 生成 "24h" / "90m" 这种人读窗口标签，
// time.Duration.String 的 "24h0m0s" 不适合放进响应
func formatWindow(window time.Duration) string {
	if window%time.Hour == 0 {
		return fmt.Sprintf("%dh", int64(window/time.Hour))
	}
	if window%time.Minute == 0 {
		return fmt.Sprintf("%dm", int64(window/time.Minute))
	}
	return window.String()
}

func avatarURL(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	url := minio.GetPublicURL(*ref)
	return &url
}
