package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/minio"
	"Agora/internal/repository"
	"context"
	"time"

	log "log/slog"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetCommentTree(ctx context.Context, viewerID, postID uint64, limit, offset int) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
}

type commentServiceImpl struct {
	db          *gorm.DB
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	voteService VoteService
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	voteService VoteService,
) CommentService {
	return &commentServiceImpl{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		voteService: voteService,
	}
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	post, err := s.postRepo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.IsLocked {
		return nil, ErrPostLocked
	}

	if req.ParentID != 0 {
		parent, err := s.commentRepo.GetComment(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != req.PostID {
			return nil, ErrCommentNotFound
		}
	}

	comment := &model.Comment{
		PostID:   req.PostID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	// 评论插入和帖子评论数在同一事务内落库
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.CreateComment(ctx, tx, comment); err != nil {
			return err
		}
		return s.postRepo.IncrCommentsCount(ctx, tx, req.PostID, 1)
	})
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", req.PostID, "user_id", userID)

	author, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author != nil {
		comment.User = *author
	}
	return toCommentDTO(comment, ""), nil
}

// GetCommentTree 返回两层评论树：根评论分页按分数倒序，回复整批挂载
func (s *commentServiceImpl) GetCommentTree(ctx context.Context, viewerID, postID uint64, limit, offset int) ([]*dto.CommentDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	roots, err := s.commentRepo.GetRootComments(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return []*dto.CommentDTO{}, nil
	}

	rootIDs := make([]uint64, 0, len(roots))
	for _, c := range roots {
		rootIDs = append(rootIDs, c.ID)
	}
	replies, err := s.commentRepo.GetReplies(ctx, rootIDs)
	if err != nil {
		return nil, err
	}

	tree := make([]*dto.CommentDTO, 0, len(roots))
	index := make(map[uint64]*dto.CommentDTO, len(roots))
	for _, c := range roots {
		d, err := s.buildCommentDTO(ctx, viewerID, c)
		if err != nil {
			return nil, err
		}
		index[c.ID] = d
		tree = append(tree, d)
	}
	for _, c := range replies {
		parent, ok := index[c.ParentID]
		if !ok {
			continue
		}
		d, err := s.buildCommentDTO(ctx, viewerID, c)
		if err != nil {
			return nil, err
		}
		parent.Replies = append(parent.Replies, d)
	}
	return tree, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.commentRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return PermissionDenied
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.SoftDeleteComment(ctx, tx, commentID); err != nil {
			return err
		}
		return s.postRepo.IncrCommentsCount(ctx, tx, comment.PostID, -1)
	})
}

func (s *commentServiceImpl) buildCommentDTO(ctx context.Context, viewerID uint64, comment *model.Comment) (*dto.CommentDTO, error) {
	userVote := ""
	if viewerID != 0 {
		vt, err := s.voteService.GetVoteType(ctx, viewerID, model.EntityComment, comment.ID)
		if err != nil {
			return nil, err
		}
		if vt != nil {
			userVote = string(*vt)
		}
	}
	return toCommentDTO(comment, userVote), nil
}

func toCommentDTO(comment *model.Comment, userVote string) *dto.CommentDTO {
	d := &dto.CommentDTO{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		Score:     comment.Score,
		UserID:    comment.UserID,
		Username:  comment.User.Username,
		UserVote:  userVote,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
	if comment.User.AvatarURL != nil && *comment.User.AvatarURL != "" {
		url := minio.GetPublicURL(*comment.User.AvatarURL)
		d.AvatarURL = &url
	}
	return d
}
