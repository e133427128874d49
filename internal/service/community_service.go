package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"errors"
	"time"

	log "log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/gosimple/slug"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, userID uint64, req *dto.CreateCommunityDTO) (*dto.CommunityDTO, error)
	GetCommunity(ctx context.Context, viewerID uint64, slugOrID string) (*dto.CommunityDTO, error)
	ListCommunities(ctx context.Context, limit, offset int) ([]*dto.CommunityDTO, error)
	JoinCommunity(ctx context.Context, userID uint64, slugText string) error
	LeaveCommunity(ctx context.Context, userID uint64, slugText string) error
}

type communityServiceImpl struct {
	communityRepo repository.CommunityRepo
}

func NewCommunityService(communityRepo repository.CommunityRepo) CommunityService {
	return &communityServiceImpl{communityRepo: communityRepo}
}

func (s *communityServiceImpl) CreateCommunity(ctx context.Context, userID uint64, req *dto.CreateCommunityDTO) (*dto.CommunityDTO, error) {
	communitySlug := slug.Make(req.Name)
	if communitySlug == "" {
		return nil, ErrParamInvalid
	}

	if exist, err := s.communityRepo.GetCommunityBySlug(ctx, communitySlug); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrCommunityExist
	}

	community := &model.Community{
		Name:        req.Name,
		Slug:        communitySlug,
		Description: req.Description,
		CreatorID:   userID,
	}
	if err := s.communityRepo.CreateCommunity(ctx, community); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrCommunityExist
		}
		return nil, err
	}

	// 创建者自动入社
	if err := s.communityRepo.CreateMember(ctx, &model.CommunityMember{
		UserID:      userID,
		CommunityID: community.ID,
	}); err != nil {
		return nil, err
	}
	if err := s.communityRepo.ApplyMembersDelta(ctx, community.ID, 1); err != nil {
		return nil, err
	}
	community.MembersCount = 1

	log.InfoContext(ctx, "community created", "community_id", community.ID, "slug", communitySlug, "creator_id", userID)
	return toCommunityDTO(community, true), nil
}

func (s *communityServiceImpl) GetCommunity(ctx context.Context, viewerID uint64, slugText string) (*dto.CommunityDTO, error) {
	community, err := s.communityRepo.GetCommunityBySlug(ctx, slugText)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}

	isMember := false
	if viewerID != 0 {
		isMember, err = s.communityRepo.CheckMemberExists(ctx, viewerID, community.ID)
		if err != nil {
			return nil, err
		}
	}
	return toCommunityDTO(community, isMember), nil
}

func (s *communityServiceImpl) ListCommunities(ctx context.Context, limit, offset int) ([]*dto.CommunityDTO, error) {
	communities, err := s.communityRepo.ListCommunities(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.CommunityDTO, 0, len(communities))
	for _, c := range communities {
		list = append(list, toCommunityDTO(c, false))
	}
	return list, nil
}

func (s *communityServiceImpl) JoinCommunity(ctx context.Context, userID uint64, slugText string) error {
	community, err := s.communityRepo.GetCommunityBySlug(ctx, slugText)
	if err != nil {
		return err
	}
	if community == nil {
		return ErrCommunityNotFound
	}

	exists, err := s.communityRepo.CheckMemberExists(ctx, userID, community.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrMemberExist
	}

	// 并发加入靠复合主键兜底
	if err = s.communityRepo.CreateMember(ctx, &model.CommunityMember{
		UserID:      userID,
		CommunityID: community.ID,
	}); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrMemberExist
		}
		return err
	}
	return s.communityRepo.ApplyMembersDelta(ctx, community.ID, 1)
}

func (s *communityServiceImpl) LeaveCommunity(ctx context.Context, userID uint64, slugText string) error {
	community, err := s.communityRepo.GetCommunityBySlug(ctx, slugText)
	if err != nil {
		return err
	}
	if community == nil {
		return ErrCommunityNotFound
	}

	removed, err := s.communityRepo.DeleteMember(ctx, userID, community.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return s.communityRepo.ApplyMembersDelta(ctx, community.ID, -1)
}

func toCommunityDTO(community *model.Community, isMember bool) *dto.CommunityDTO {
	return &dto.CommunityDTO{
		CommunityID:  community.ID,
		Name:         community.Name,
		Slug:         community.Slug,
		Description:  community.Description,
		CreatorID:    community.CreatorID,
		MembersCount: community.MembersCount,
		IsMember:     isMember,
		CreatedAt:    community.CreatedAt.Format(time.RFC3339),
	}
}
