package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/repository"
)

// SubscriptionRepositoryPostgres implements repository.SubscriptionRepository.
type SubscriptionRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepositoryPostgres(pool *pgxpool.Pool) *SubscriptionRepositoryPostgres {
	return &SubscriptionRepositoryPostgres{pool: pool}
}

func (r *SubscriptionRepositoryPostgres) Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, uuid.New(), subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryPostgres) Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	if _, err := r.pool.Exec(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

// GetChannelProfile returns the channel row joined with its subscriber
// counts and, when a viewer is given, whether that viewer already subscribes.
func (r *SubscriptionRepositoryPostgres) GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*entity.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url, u.cover_image_url,
		       (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
		       (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       ($2::uuid IS NOT NULL AND EXISTS (
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = $2
		       )) AS is_subscribed
		FROM users u
		WHERE u.username = $1
	`
	profile := &entity.ChannelProfile{}
	err := r.pool.QueryRow(ctx, query, username, viewerID).Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.AvatarURL,
		&profile.CoverImageURL, &profile.SubscriberCount, &profile.SubscribedTo,
		&profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to load channel profile: %w", err)
	}
	return profile, nil
}

var _ repository.SubscriptionRepository = (*SubscriptionRepositoryPostgres)(nil)
