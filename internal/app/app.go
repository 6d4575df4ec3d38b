package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/config"
	"github.com/streamnest/user-service/internal/events/kafka"
	httphandler "github.com/streamnest/user-service/internal/handler/http"
	"github.com/streamnest/user-service/internal/infrastructure/client/s3"
	"github.com/streamnest/user-service/internal/infrastructure/database/postgres"
	redisdb "github.com/streamnest/user-service/internal/infrastructure/database/redis"
	postgresrepo "github.com/streamnest/user-service/internal/infrastructure/repository/postgres"
	redisrepo "github.com/streamnest/user-service/internal/infrastructure/repository/redis"
	"github.com/streamnest/user-service/internal/infrastructure/security"
	"github.com/streamnest/user-service/internal/service"
	"github.com/streamnest/user-service/pkg/metrics"
)

// App owns every long-lived component and their shutdown order.
type App struct {
	cfg         *config.Config
	logger      *zap.Logger
	pool        *pgxpool.Pool
	redisClient *goredis.Client
	producer    kafka.EventProducer
	httpServer  *http.Server
}

// NewApp wires the whole service: storage, cache, broker, media storage,
// services, handlers and the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Redis and Kafka are optional: the service degrades to uncached reads
	// and unpublished events rather than refusing to start.
	var redisClient *goredis.Client
	var profileCache *redisrepo.ProfileCache
	if cfg.Redis.Host != "" {
		redisClient, err = redisdb.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, channel profiles will not be cached", zap.Error(err))
			redisClient = nil
		} else {
			profileCache = redisrepo.NewProfileCache(redisClient, cfg.Redis.ProfileTTL)
		}
	}

	var producer kafka.EventProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewKafkaEventProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "user-service", logger)
	}

	mediaStorage, err := s3.NewS3MediaStorage(cfg.S3)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	tokenManager, err := security.NewJWTTokenManager(cfg.JWT)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}
	passwordService := security.NewBcryptPasswordService()

	userRepo := postgresrepo.NewUserRepositoryPostgres(pool)
	subsRepo := postgresrepo.NewSubscriptionRepositoryPostgres(pool)
	historyRepo := postgresrepo.NewWatchHistoryRepositoryPostgres(pool)
	postRepo := postgresrepo.NewPostRepositoryPostgres(pool)

	authService := service.NewAuthService(userRepo, passwordService, tokenManager, producer, logger)
	userService := service.NewUserService(userRepo, subsRepo, historyRepo, profileCache, mediaStorage, producer, logger)
	postService := service.NewPostService(postRepo)

	authHandler := httphandler.NewAuthHandler(authService, mediaStorage, cfg, logger)
	userHandler := httphandler.NewUserHandler(userService, logger)
	postHandler := httphandler.NewPostHandler(postService, logger)

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httphandler.NewRouter(cfg, logger, registry, tokenManager, authHandler, userHandler, postHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		redisClient: redisClient,
		producer:    producer,
		httpServer:  httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until a shutdown signal or a server
// error.
func (a *App) Run() error {
	errChan := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error, initiating shutdown", zap.Error(err))
		a.shutdown()
		return err
	case sig := <-quit:
		a.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		a.shutdown()
		return nil
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("Kafka producer close failed", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Redis client close failed", zap.Error(err))
		}
	}
	a.pool.Close()
	a.logger.Info("Shutdown complete")
}
