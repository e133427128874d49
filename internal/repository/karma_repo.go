package repository

import (
	"Agora/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// WindowedKarmaRow 窗口排行榜的聚合行
type WindowedKarmaRow struct {
	UserID    uint64
	Username  string
	AvatarURL *string
	Karma     int64
}

// UserKarmaSum 对账用的全量聚合行
type UserKarmaSum struct {
	UserID uint64
	Karma  int64
}

// KarmaRepo 声望流水仓库。只有 Append 一个写操作，
// 且只允许在投票事务内部调用；刻意不提供 update / delete
type KarmaRepo interface {
	Append(ctx context.Context, tx *gorm.DB, txn *model.KarmaTransaction) error
	SumDeltasSince(ctx context.Context, cutoff time.Time, limit int) ([]*WindowedKarmaRow, error)
	SumByUser(ctx context.Context, userID uint64) (int64, error)
	SumGroupedByUser(ctx context.Context) ([]*UserKarmaSum, error)
}

type karmaRepoImpl struct {
	db *gorm.DB
}

func NewKarmaRepo(db *gorm.DB) KarmaRepo {
	return &karmaRepoImpl{db}
}

func (s *karmaRepoImpl) Append(ctx context.Context, tx *gorm.DB, txn *model.KarmaTransaction) error {
	return tx.WithContext(ctx).Create(txn).Error
}

// SumDeltasSince 按用户聚合窗口内的声望变动，并列时按 user_id 升序保证分页稳定。
// 与全量榜一致，已注销用户不参与窗口榜
func (s *karmaRepoImpl) SumDeltasSince(ctx context.Context, cutoff time.Time, limit int) ([]*WindowedKarmaRow, error) {
	rows := make([]*WindowedKarmaRow, 0, limit)
	err := s.db.WithContext(ctx).Model(&model.KarmaTransaction{}).
		Select("karma_transactions.user_id AS user_id, users.username AS username, users.avatar_url AS avatar_url, SUM(karma_transactions.delta) AS karma").
		Joins("JOIN users ON users.id = karma_transactions.user_id").
		Where("users.is_deleted = ?", false).
		Where("karma_transactions.created_at >= ?", cutoff).
		Group("karma_transactions.user_id, users.username, users.avatar_url").
		Order("karma DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (s *karmaRepoImpl) SumByUser(ctx context.Context, userID uint64) (int64, error) {
	var total *int64
	err := s.db.WithContext(ctx).Model(&model.KarmaTransaction{}).
		Select("SUM(delta)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (s *karmaRepoImpl) SumGroupedByUser(ctx context.Context) ([]*UserKarmaSum, error) {
	var rows []*UserKarmaSum
	err := s.db.WithContext(ctx).Model(&model.KarmaTransaction{}).
		Select("user_id, SUM(delta) AS karma").
		Group("user_id").
		Scan(&rows).Error
	return rows, err
}
