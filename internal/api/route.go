package api

import (
	"Agora/internal/api/middleware"
	"Agora/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/users")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/leaderboard", group.LeaderboardHandler.GetLeaderboard)
			userGroup.GET("/:user_id/profile", group.UserHandler.GetProfile)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/me", group.UserHandler.GetMe)
				authGroup.PUT("/me", group.UserHandler.UpdateProfile)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/:post_id/comments", group.PostHandler.GetComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/vote", group.VoteHandler.VotePost)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.Use(middleware.AuthMiddleware())
			{
				commentGroup.POST("", group.CommentHandler.CreateComment)
				commentGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				commentGroup.POST("/:comment_id/vote", group.VoteHandler.VoteComment)
			}
		}

		communityGroup := apiGroup.Group("/communities")
		{
			authOptGroup := communityGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.CommunityHandler.ListCommunities)
				authOptGroup.GET("/:slug", group.CommunityHandler.GetCommunity)
			}

			authGroup := communityGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommunityHandler.CreateCommunity)
				authGroup.POST("/:slug/join", group.CommunityHandler.JoinCommunity)
				authGroup.DELETE("/:slug/join", group.CommunityHandler.LeaveCommunity)
			}
		}
	}

	return r
}
