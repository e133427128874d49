package repository

import (
	"Agora/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// VotableEntity 投票目标在引擎内的最小视图
type VotableEntity struct {
	ID       uint64
	AuthorID uint64
	Score    int64
	Locked   bool
}

// VotableStore 把一种内容类型接入投票引擎。
// 两个实现共享同一套状态机，引擎本身不关心目标是帖子还是评论。
// 所有带 tx 的方法必须在同一事务内调用，加锁顺序固定：先实体行，后投票行
type VotableStore interface {
	Kind() model.EntityKind

	// LockEntity 以排他锁读取可见实体行，软删或不存在返回 gorm.ErrRecordNotFound
	LockEntity(ctx context.Context, tx *gorm.DB, id uint64) (*VotableEntity, error)
	// LockVote 以排他锁读取已有投票行，不存在返回 nil
	LockVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) (*model.VoteType, error)

	CreateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error
	UpdateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error
	DeleteVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) error

	ApplyScoreDelta(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error
	GetScore(ctx context.Context, tx *gorm.DB, id uint64) (int64, error)

	// GetVoteType 非加锁读取，用于详情页展示当前用户的投票方向
	GetVoteType(ctx context.Context, voterID, entityID uint64) (*model.VoteType, error)
	// CountVotes 统计当前生效的投票数（#up − #down 校验用）
	CountVotes(ctx context.Context, entityID uint64, voteType model.VoteType) (int64, error)
}

type postVotableStore struct {
	db *gorm.DB
}

func NewPostVotableStore(db *gorm.DB) VotableStore {
	return &postVotableStore{db}
}

func (s *postVotableStore) Kind() model.EntityKind {
	return model.EntityPost
}

func (s *postVotableStore) LockEntity(ctx context.Context, tx *gorm.DB, id uint64) (*VotableEntity, error) {
	var post model.Post
	err := lockForUpdate(tx.WithContext(ctx)).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &VotableEntity{
		ID:       post.ID,
		AuthorID: post.UserID,
		Score:    post.Score,
		Locked:   post.IsLocked,
	}, nil
}

func (s *postVotableStore) LockVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) (*model.VoteType, error) {
	var vote model.PostVote
	err := lockForUpdate(tx.WithContext(ctx)).
		Where("user_id = ? AND post_id = ?", voterID, entityID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote.VoteType, nil
}

func (s *postVotableStore) CreateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error {
	return tx.WithContext(ctx).Create(&model.PostVote{
		UserID:    voterID,
		PostID:    entityID,
		VoteType:  voteType,
		CreatedAt: time.Now(),
	}).Error
}

func (s *postVotableStore) UpdateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error {
	return tx.WithContext(ctx).Model(&model.PostVote{}).
		Where("user_id = ? AND post_id = ?", voterID, entityID).
		Update("vote_type", voteType).Error
}

func (s *postVotableStore) DeleteVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) error {
	return tx.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", voterID, entityID).
		Delete(&model.PostVote{}).Error
}

func (s *postVotableStore) ApplyScoreDelta(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error {
	return tx.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
}

func (s *postVotableStore) GetScore(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	var score int64
	err := tx.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Pluck("score", &score).Error
	return score, err
}

func (s *postVotableStore) GetVoteType(ctx context.Context, voterID, entityID uint64) (*model.VoteType, error) {
	var vote model.PostVote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", voterID, entityID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote.VoteType, nil
}

func (s *postVotableStore) CountVotes(ctx context.Context, entityID uint64, voteType model.VoteType) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostVote{}).
		Where("post_id = ? AND vote_type = ?", entityID, voteType).
		Count(&count).Error
	return count, err
}

type commentVotableStore struct {
	db *gorm.DB
}

func NewCommentVotableStore(db *gorm.DB) VotableStore {
	return &commentVotableStore{db}
}

func (s *commentVotableStore) Kind() model.EntityKind {
	return model.EntityComment
}

func (s *commentVotableStore) LockEntity(ctx context.Context, tx *gorm.DB, id uint64) (*VotableEntity, error) {
	var comment model.Comment
	err := lockForUpdate(tx.WithContext(ctx)).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &VotableEntity{
		ID:       comment.ID,
		AuthorID: comment.UserID,
		Score:    comment.Score,
	}, nil
}

func (s *commentVotableStore) LockVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) (*model.VoteType, error) {
	var vote model.CommentVote
	err := lockForUpdate(tx.WithContext(ctx)).
		Where("user_id = ? AND comment_id = ?", voterID, entityID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote.VoteType, nil
}

func (s *commentVotableStore) CreateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error {
	return tx.WithContext(ctx).Create(&model.CommentVote{
		UserID:    voterID,
		CommentID: entityID,
		VoteType:  voteType,
		CreatedAt: time.Now(),
	}).Error
}

func (s *commentVotableStore) UpdateVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64, voteType model.VoteType) error {
	return tx.WithContext(ctx).Model(&model.CommentVote{}).
		Where("user_id = ? AND comment_id = ?", voterID, entityID).
		Update("vote_type", voteType).Error
}

func (s *commentVotableStore) DeleteVote(ctx context.Context, tx *gorm.DB, voterID, entityID uint64) error {
	return tx.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", voterID, entityID).
		Delete(&model.CommentVote{}).Error
}

func (s *commentVotableStore) ApplyScoreDelta(ctx context.Context, tx *gorm.DB, id uint64, delta int64) error {
	return tx.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
}

func (s *commentVotableStore) GetScore(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	var score int64
	err := tx.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Pluck("score", &score).Error
	return score, err
}

func (s *commentVotableStore) GetVoteType(ctx context.Context, voterID, entityID uint64) (*model.VoteType, error) {
	var vote model.CommentVote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", voterID, entityID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote.VoteType, nil
}

func (s *commentVotableStore) CountVotes(ctx context.Context, entityID uint64, voteType model.VoteType) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentVote{}).
		Where("comment_id = ? AND vote_type = ?", entityID, voteType).
		Count(&count).Error
	return count, err
}
