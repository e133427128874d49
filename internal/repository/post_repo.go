package repository

import (
	"Agora/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// PostQuery 帖子列表过滤条件。CommunitySlug 在 service 层解析成 CommunityID
type PostQuery struct {
	CommunityID   uint64
	CommunitySlug string
	AuthorID      uint64
	Sort          string // new | top | hot
	Limit         int
	Offset        int
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	ListPosts(ctx context.Context, q *PostQuery) ([]*model.Post, error)
	SoftDeletePost(ctx context.Context, id uint64) error
	IncrCommentsCount(ctx context.Context, tx *gorm.DB, postID uint64, delta int) error
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db}
}

func (s *postRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *postRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Community").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) ListPosts(ctx context.Context, q *PostQuery) ([]*model.Post, error) {
	db := s.db.WithContext(ctx).
		Preload("User").
		Preload("Community").
		Where("is_deleted = ?", false)

	if q.CommunityID > 0 {
		db = db.Where("community_id = ?", q.CommunityID)
	}
	if q.AuthorID > 0 {
		db = db.Where("user_id = ?", q.AuthorID)
	}

	switch q.Sort {
	case "top":
		db = db.Order("score DESC, created_at DESC")
	case "hot":
		// 简化的热度排序：置顶优先，分数加时间衰减交给前端分页消化
		db = db.Order("is_pinned DESC, score DESC, created_at DESC")
	default:
		db = db.Order("created_at DESC")
	}

	var posts []*model.Post
	err := db.Limit(q.Limit).Offset(q.Offset).Find(&posts).Error
	return posts, err
}

func (s *postRepoImpl) SoftDeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (s *postRepoImpl) IncrCommentsCount(ctx context.Context, tx *gorm.DB, postID uint64, delta int) error {
	return tx.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}
