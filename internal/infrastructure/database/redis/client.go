package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/streamnest/user-service/internal/config"
)

// NewRedisClient creates a Redis client using configuration.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return client, client.Ping(ctx).Err()
}
