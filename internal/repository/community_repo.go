package repository

import (
	"Agora/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommunityRepo interface {
	CreateCommunity(ctx context.Context, community *model.Community) error
	GetCommunityByID(ctx context.Context, id uint64) (*model.Community, error)
	GetCommunityBySlug(ctx context.Context, slug string) (*model.Community, error)
	ListCommunities(ctx context.Context, limit, offset int) ([]*model.Community, error)

	CreateMember(ctx context.Context, member *model.CommunityMember) error
	DeleteMember(ctx context.Context, userID, communityID uint64) (bool, error)
	CheckMemberExists(ctx context.Context, userID, communityID uint64) (bool, error)
	ApplyMembersDelta(ctx context.Context, communityID uint64, delta int) error
}

type communityRepoImpl struct {
	db *gorm.DB
}

func NewCommunityRepo(db *gorm.DB) CommunityRepo {
	return &communityRepoImpl{db}
}

func (s *communityRepoImpl) CreateCommunity(ctx context.Context, community *model.Community) error {
	return s.db.WithContext(ctx).Create(community).Error
}

func (s *communityRepoImpl) GetCommunityByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &community, nil
}

func (s *communityRepoImpl) GetCommunityBySlug(ctx context.Context, slug string) (*model.Community, error) {
	var community model.Community
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &community, nil
}

func (s *communityRepoImpl) ListCommunities(ctx context.Context, limit, offset int) ([]*model.Community, error) {
	var communities []*model.Community
	err := s.db.WithContext(ctx).
		Order("members_count DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&communities).Error
	return communities, err
}

func (s *communityRepoImpl) CreateMember(ctx context.Context, member *model.CommunityMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *communityRepoImpl) DeleteMember(ctx context.Context, userID, communityID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Delete(&model.CommunityMember{})
	return result.RowsAffected > 0, result.Error
}

func (s *communityRepoImpl) CheckMemberExists(ctx context.Context, userID, communityID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Count(&count).Error
	return count > 0, err
}

func (s *communityRepoImpl) ApplyMembersDelta(ctx context.Context, communityID uint64, delta int) error {
	return s.db.WithContext(ctx).Model(&model.Community{}).
		Where("id = ?", communityID).
		UpdateColumn("members_count", gorm.Expr("members_count + ?", delta)).Error
}
