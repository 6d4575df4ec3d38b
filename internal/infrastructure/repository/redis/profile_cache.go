package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streamnest/user-service/internal/domain/entity"
)

const profileKeyPrefix = "channel_profile:"

// ProfileCache keeps channel read views hot; the channel page is by far the
// most read endpoint while profile mutations are rare.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, username string) (*entity.ChannelProfile, error) {
	data, err := c.client.Get(ctx, profileKeyPrefix+username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile cache: %w", err)
	}
	profile := &entity.ChannelProfile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return profile, nil
}

func (c *ProfileCache) Set(ctx context.Context, username string, profile *entity.ChannelProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := c.client.Set(ctx, profileKeyPrefix+username, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write profile cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached view after a profile mutation.
func (c *ProfileCache) Invalidate(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, profileKeyPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to invalidate profile cache: %w", err)
	}
	return nil
}
