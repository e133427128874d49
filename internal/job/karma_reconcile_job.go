package job

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/logger"
	"Agora/internal/pkg/redis"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// KarmaReconcileJob 声望对账任务。
// 以 karma_transactions 的全量聚合为准，巡检 users.karma 缓存列：
// 发现偏差先记错误日志再修复。正常运行时投票事务保证两边一致，
// 这里兜底的是人工改库、历史缺陷等计划外写入
type KarmaReconcileJob struct {
	karmaRepo repository.KarmaRepo
	userRepo  repository.UserRepo
}

func NewKarmaReconcileJob(karmaRepo repository.KarmaRepo, userRepo repository.UserRepo) *KarmaReconcileJob {
	return &KarmaReconcileJob{karmaRepo: karmaRepo, userRepo: userRepo}
}

func (s *KarmaReconcileJob) Run() {
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, uuid.NewString())

	// 分布式锁保证多实例部署时只跑一份
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.KarmaReconcileLock, lockValue, 10*time.Minute, 1)
	if err != nil || !locked {
		log.InfoContext(ctx, "声望对账任务未取得锁，跳过本轮", "err", err)
		return
	}
	defer redis.UnLock(ctx, consts.KarmaReconcileLock, lockValue)

	start := time.Now()
	repaired, err := s.reconcile(ctx)
	if err != nil {
		log.ErrorContext(ctx, "声望对账任务失败", "err", err)
		return
	}
	log.InfoContext(ctx, "声望对账任务完成", "repaired", repaired, "cost", time.Since(start).String())
}

func (s *KarmaReconcileJob) reconcile(ctx context.Context) (int, error) {
	sums, err := s.karmaRepo.SumGroupedByUser(ctx)
	if err != nil {
		return 0, err
	}
	expected := make(map[uint64]int64, len(sums))
	for _, row := range sums {
		expected[row.UserID] = row.Karma
	}

	// 缓存非零但流水为零的用户不会出现在聚合结果里，单独并入巡检集合
	holders, err := s.userRepo.ListKarmaHolders(ctx)
	if err != nil {
		return 0, err
	}
	cached := make(map[uint64]int64, len(holders))
	for _, u := range holders {
		cached[u.ID] = u.Karma
	}
	for userID := range expected {
		if _, ok := cached[userID]; !ok {
			user, err := s.userRepo.GetUserByID(ctx, userID)
			if err != nil {
				return 0, err
			}
			if user == nil {
				continue
			}
			cached[userID] = user.Karma
		}
	}

	repaired := 0
	for userID, have := range cached {
		want := expected[userID]
		if have == want {
			continue
		}
		log.ErrorContext(ctx, "声望缓存与流水不一致",
			"user_id", userID, "cached", have, "ledger", want)
		if err := s.userRepo.SetKarma(ctx, userID, want); err != nil {
			return repaired, err
		}
		repaired++
	}
	return repaired, nil
}
