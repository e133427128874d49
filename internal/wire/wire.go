package wire

import (
	"Agora/internal/api"
	"Agora/internal/api/config"
	"Agora/internal/api/handler"
	"Agora/internal/job"
	"Agora/internal/pkg/cron"
	"Agora/internal/pkg/kafka"
	"Agora/internal/repository"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Producer *kafka.Producer
	CronMgr  *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	communityRepo := repository.NewCommunityRepo(db)
	karmaRepo := repository.NewKarmaRepo(db)
	postVotes := repository.NewPostVotableStore(db)
	commentVotes := repository.NewCommentVotableStore(db)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	voteService := service.NewVoteService(db, postVotes, commentVotes, karmaRepo, userRepo, producer)
	karmaService := service.NewKarmaService(karmaRepo, userRepo)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, communityRepo, voteService)
	commentService := service.NewCommentService(db, commentRepo, postRepo, userRepo, voteService)
	communityService := service.NewCommunityService(communityRepo)

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService),
		PostHandler:        handler.NewPostHandler(postService, commentService),
		CommentHandler:     handler.NewCommentHandler(commentService),
		CommunityHandler:   handler.NewCommunityHandler(communityService),
		VoteHandler:        handler.NewVoteHandler(voteService),
		LeaderboardHandler: handler.NewLeaderboardHandler(karmaService),
	}

	router := api.SetupRouter(handlers)

	reconcileJob := job.NewKarmaReconcileJob(karmaRepo, userRepo)
	cronMgr := cron.NewCronManager(reconcileJob)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		Producer: producer,
		CronMgr:  cronMgr,
	}, nil
}
