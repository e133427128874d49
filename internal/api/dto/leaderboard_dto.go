package dto

import "time"

type LeaderboardEntryDTO struct {
	Rank      int     `json:"rank"`
	UserID    uint64  `json:"user_id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	Karma     int64   `json:"karma"`
}

type LeaderboardDTO struct {
	Period      string                `json:"period"`
	GeneratedAt time.Time             `json:"generated_at"`
	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`
}
