package repository

import (
	"Agora/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) error

	// ApplyKarmaDelta 只允许在投票事务内部调用，与流水追加保持同一原子单元
	ApplyKarmaDelta(ctx context.Context, tx *gorm.DB, userID uint64, delta int64) error
	// SetKarma 只允许对账任务调用
	SetKarma(ctx context.Context, userID uint64, karma int64) error
	// ListTopByKarma 按缓存声望取前 K，并列时按 id 升序
	ListTopByKarma(ctx context.Context, limit int) ([]*model.User, error)
	// ListKarmaHolders 取缓存声望非零的用户，供对账任务全量巡检
	ListKarmaHolders(ctx context.Context) ([]*model.User, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db}
}

func (s *userRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userRepoImpl) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND is_deleted = ?", username, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (s *userRepoImpl) ApplyKarmaDelta(ctx context.Context, tx *gorm.DB, userID uint64, delta int64) error {
	return tx.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error
}

func (s *userRepoImpl) SetKarma(ctx context.Context, userID uint64, karma int64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", karma).Error
}

func (s *userRepoImpl) ListTopByKarma(ctx context.Context, limit int) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("karma DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *userRepoImpl) ListKarmaHolders(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).
		Where("karma <> ?", 0).
		Find(&users).Error
	return users, err
}
