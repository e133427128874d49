package consts

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// 排行榜条数限制
	LeaderboardDefaultLimit = 10
	LeaderboardMaxLimit     = 100
)
