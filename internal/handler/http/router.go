package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/config"
	domainService "github.com/streamnest/user-service/internal/domain/service"
	"github.com/streamnest/user-service/internal/handler/http/middleware"
	"github.com/streamnest/user-service/pkg/metrics"
)

// NewRouter assembles the gin engine: middleware chain, operational
// endpoints and the versioned API surface.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	registry *metrics.Registry,
	tokenManager domainService.TokenManager,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	postHandler *PostHandler,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))
	if registry != nil {
		router.Use(metrics.GinMiddleware(registry))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.AuthMiddleware(tokenManager, logger)
	optionalAuth := middleware.OptionalAuthMiddleware(tokenManager, logger)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.POST("/refresh-token", authHandler.RefreshToken)

			users.POST("/logout", requireAuth, authHandler.Logout)
			users.POST("/change-password", requireAuth, authHandler.ChangePassword)
			users.GET("/current-user", requireAuth, userHandler.CurrentUser)
			users.PATCH("/update-account", requireAuth, userHandler.UpdateAccount)
			users.PATCH("/avatar", requireAuth, userHandler.UpdateAvatar)
			users.PATCH("/cover-image", requireAuth, userHandler.UpdateCoverImage)
			users.GET("/history", requireAuth, userHandler.WatchHistory)
			users.POST("/history/:videoId", requireAuth, userHandler.RecordWatch)

			users.GET("/c/:username", optionalAuth, userHandler.ChannelProfile)
		}

		subscriptions := v1.Group("/subscriptions", requireAuth)
		{
			subscriptions.POST("/:channelId", userHandler.Subscribe)
			subscriptions.DELETE("/:channelId", userHandler.Unsubscribe)
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", requireAuth, postHandler.CreatePost)
			posts.GET("/user/:userId", postHandler.ListUserPosts)
		}
	}

	return router
}
