package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/kafka"
	"Agora/internal/pkg/logger"
	"Agora/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// VoteService 投票状态机引擎。帖子与评论共用同一套状态机，
// 通过 repository.VotableStore 区分目标类型。
// 一次投票的四个效果在同一事务内提交：投票行、实体分数、声望流水、作者声望缓存
type VoteService interface {
	Vote(ctx context.Context, voterID uint64, kind model.EntityKind, entityID uint64, voteType model.VoteType) (*dto.VoteResultDTO, error)
	GetVoteType(ctx context.Context, voterID uint64, kind model.EntityKind, entityID uint64) (*model.VoteType, error)
}

type voteServiceImpl struct {
	db        *gorm.DB
	stores    map[model.EntityKind]repository.VotableStore
	karmaRepo repository.KarmaRepo
	userRepo  repository.UserRepo
	producer  *kafka.Producer
}

func NewVoteService(
	db *gorm.DB,
	postStore repository.VotableStore,
	commentStore repository.VotableStore,
	karmaRepo repository.KarmaRepo,
	userRepo repository.UserRepo,
	producer *kafka.Producer,
) VoteService {
	return &voteServiceImpl{
		db: db,
		stores: map[model.EntityKind]repository.VotableStore{
			postStore.Kind():    postStore,
			commentStore.Kind(): commentStore,
		},
		karmaRepo: karmaRepo,
		userRepo:  userRepo,
		producer:  producer,
	}
}

type voteAction int

const (
	actionCreate voteAction = iota
	actionFlip
	actionRemove
)

// transition 状态机的一次迁移结果。
// 投票行变化、分数增量与流水增量完全由 (当前票, 请求票) 决定
type transition struct {
	action  voteAction
	next    model.VoteType
	delta   int64
	reason  string
	message string
}

// resolveTransition 求解状态迁移。重复提交当前票型定义为撤票，不是幂等空操作
func resolveTransition(kind model.EntityKind, current *model.VoteType, requested model.VoteType) transition {
	prefix := string(kind)

	if current == nil {
		if requested == model.VoteUp {
			return transition{actionCreate, model.VoteUp, 1, prefix + "_upvote", "Vote recorded"}
		}
		return transition{actionCreate, model.VoteDown, -1, prefix + "_downvote", "Vote recorded"}
	}

	if *current == requested {
		// 撤票：分数回退一票
		if requested == model.VoteUp {
			return transition{actionRemove, "", -1, prefix + "_upvote_removed", "Vote removed"}
		}
		return transition{actionRemove, "", 1, prefix + "_downvote_removed", "Vote removed"}
	}

	// 换票：撤掉旧票再投新票，摆动 2 分
	if requested == model.VoteUp {
		return transition{actionFlip, model.VoteUp, 2, prefix + "_upvote", "Vote updated"}
	}
	return transition{actionFlip, model.VoteDown, -2, prefix + "_downvote", "Vote updated"}
}

func (s *voteServiceImpl) Vote(ctx context.Context, voterID uint64, kind model.EntityKind, entityID uint64, voteType model.VoteType) (*dto.VoteResultDTO, error) {
	if !voteType.Valid() {
		return nil, ErrVoteTypeInvalid
	}
	store, ok := s.stores[kind]
	if !ok {
		return nil, ErrParamInvalid
	}

	var (
		result dto.VoteResultDTO
		event  *kafka.VoteEvent
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 加锁顺序固定：先实体行，后投票行，避免并发投票互相死锁
		entity, err := store.LockEntity(ctx, tx, entityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError(kind)
			}
			return err
		}
		if entity.Locked {
			return ErrPostLocked
		}

		current, err := store.LockVote(ctx, tx, voterID, entityID)
		if err != nil {
			return err
		}

		tr := resolveTransition(kind, current, voteType)

		switch tr.action {
		case actionCreate:
			err = store.CreateVote(ctx, tx, voterID, entityID, tr.next)
		case actionFlip:
			err = store.UpdateVote(ctx, tx, voterID, entityID, tr.next)
		case actionRemove:
			err = store.DeleteVote(ctx, tx, voterID, entityID)
		}
		if err != nil {
			return err
		}

		if err = store.ApplyScoreDelta(ctx, tx, entityID, tr.delta); err != nil {
			return err
		}

		// 流水追加与作者声望缓存更新必须和分数变更同事务，
		// 两者在任何提交点都不允许出现偏差
		if err = s.karmaRepo.Append(ctx, tx, &model.KarmaTransaction{
			UserID:     entity.AuthorID,
			Delta:      tr.delta,
			Reason:     tr.reason,
			EntityKind: kind,
			EntityID:   entityID,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}
		if err = s.userRepo.ApplyKarmaDelta(ctx, tx, entity.AuthorID, tr.delta); err != nil {
			return err
		}

		score, err := store.GetScore(ctx, tx, entityID)
		if err != nil {
			return err
		}

		result = dto.VoteResultDTO{Message: tr.message, Score: score}
		event = &kafka.VoteEvent{
			EntityKind: kind,
			EntityID:   entityID,
			VoterID:    voterID,
			AuthorID:   entity.AuthorID,
			Delta:      tr.delta,
			Score:      score,
			Reason:     tr.reason,
			OccurredAt: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, translateVoteError(err)
	}

	// 事务已提交，事件通知不回滚也不阻塞响应
	if s.producer != nil {
		go func(evt *kafka.VoteEvent, traceID any) {
			bgCtx := context.Background()
			if traceID != nil {
				bgCtx = context.WithValue(bgCtx, logger.TraceIDKey, traceID)
			}
			s.producer.PublishVoteEvent(bgCtx, evt)
		}(event, ctx.Value(logger.TraceIDKey))
	}

	return &result, nil
}

func (s *voteServiceImpl) GetVoteType(ctx context.Context, voterID uint64, kind model.EntityKind, entityID uint64) (*model.VoteType, error) {
	if voterID == 0 {
		return nil, nil
	}
	store, ok := s.stores[kind]
	if !ok {
		return nil, ErrParamInvalid
	}
	return store.GetVoteType(ctx, voterID, entityID)
}

func notFoundError(kind model.EntityKind) error {
	if kind == model.EntityComment {
		return ErrCommentNotFound
	}
	return ErrPostNotFound
}

// translateVoteError 把存储层的并发冲突折算成可重试的业务错误。
// 1062 唯一键冲突：两个事务同时给同一实体首投；1205/1213：锁等待超时或死锁。
// 三种情况下事务都已整体回滚，客户端重试同一请求即可
func translateVoteError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062, 1205, 1213:
			return ErrVoteConflict
		}
	}
	return err
}
