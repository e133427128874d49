package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/minio"
	"Agora/internal/repository"
	"context"
	"time"

	log "log/slog"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDTO, error)
	ListPosts(ctx context.Context, viewerID uint64, q *repository.PostQuery) (*dto.PostListDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
}

type postServiceImpl struct {
	postRepo      repository.PostRepo
	communityRepo repository.CommunityRepo
	voteService   VoteService
}

func NewPostService(postRepo repository.PostRepo, communityRepo repository.CommunityRepo, voteService VoteService) PostService {
	return &postServiceImpl{postRepo: postRepo, communityRepo: communityRepo, voteService: voteService}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}

	postType := req.PostType
	if postType == "" {
		postType = model.PostTypeText
		if req.URL != "" {
			postType = model.PostTypeLink
		}
	}

	post := &model.Post{
		UserID:      userID,
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Content:     req.Content,
		URL:         req.URL,
		PostType:    postType,
	}
	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", userID, "community_id", req.CommunityID)

	// 回读一次带出作者与社区关联
	created, err := s.postRepo.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return toPostDTO(created, ""), nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	userVote := ""
	if viewerID != 0 {
		vt, err := s.voteService.GetVoteType(ctx, viewerID, model.EntityPost, postID)
		if err != nil {
			return nil, err
		}
		if vt != nil {
			userVote = string(*vt)
		}
	}
	return toPostDTO(post, userVote), nil
}

func (s *postServiceImpl) ListPosts(ctx context.Context, viewerID uint64, q *repository.PostQuery) (*dto.PostListDTO, error) {
	if q.CommunityID == 0 && q.CommunitySlug != "" {
		community, err := s.communityRepo.GetCommunityBySlug(ctx, q.CommunitySlug)
		if err != nil {
			return nil, err
		}
		if community == nil {
			return nil, ErrCommunityNotFound
		}
		q.CommunityID = community.ID
	}

	// 多取一条判断是否还有下一页
	q.Limit++
	posts, err := s.postRepo.ListPosts(ctx, q)
	if err != nil {
		return nil, err
	}
	q.Limit--

	hasMore := len(posts) > q.Limit
	if hasMore {
		posts = posts[:q.Limit]
	}

	list := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		userVote := ""
		if viewerID != 0 {
			vt, err := s.voteService.GetVoteType(ctx, viewerID, model.EntityPost, post.ID)
			if err != nil {
				return nil, err
			}
			if vt != nil {
				userVote = string(*vt)
			}
		}
		list = append(list, toPostDTO(post, userVote))
	}
	return &dto.PostListDTO{List: list, HasMore: hasMore}, nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return PermissionDenied
	}
	return s.postRepo.SoftDeletePost(ctx, postID)
}

func toPostDTO(post *model.Post, userVote string) *dto.PostDTO {
	d := &dto.PostDTO{
		PostID:        post.ID,
		Title:         post.Title,
		Content:       post.Content,
		URL:           post.URL,
		PostType:      post.PostType,
		Score:         post.Score,
		CommentsCount: post.CommentsCount,
		IsPinned:      post.IsPinned,
		IsLocked:      post.IsLocked,
		UserID:        post.UserID,
		Username:      post.User.Username,
		CommunityID:   post.CommunityID,
		CommunitySlug: post.Community.Slug,
		UserVote:      userVote,
		CreatedAt:     post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     post.UpdatedAt.Format(time.RFC3339),
	}
	if post.User.AvatarURL != nil && *post.User.AvatarURL != "" {
		url := minio.GetPublicURL(*post.User.AvatarURL)
		d.AvatarURL = &url
	}
	return d
}
