package repository

import (
	"Agora/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, tx *gorm.DB, comment *model.Comment) error
	GetComment(ctx context.Context, id uint64) (*model.Comment, error)
	GetRootComments(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error)
	GetReplies(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error)
	SoftDeleteComment(ctx context.Context, tx *gorm.DB, id uint64) error
}

type commentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepoImpl{db}
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, tx *gorm.DB, comment *model.Comment) error {
	return tx.WithContext(ctx).Create(comment).Error
}

func (s *commentRepoImpl) GetComment(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetRootComments 分页获取帖子的顶级评论，高分在前
func (s *commentRepoImpl) GetRootComments(ctx context.Context, postID uint64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND parent_id = ? AND is_deleted = ?", postID, 0, false).
		Order("score DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// GetReplies 批量获取一组顶级评论下的回复
func (s *commentRepoImpl) GetReplies(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("parent_id IN ? AND is_deleted = ?", parentIDs, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (s *commentRepoImpl) SoftDeleteComment(ctx context.Context, tx *gorm.DB, id uint64) error {
	return tx.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
