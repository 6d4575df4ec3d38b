package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// SubscriptionRepository manages the subscriber edges of the social graph and
// serves the aggregated channel read view.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error

	// GetChannelProfile returns the public channel view for username,
	// including subscriber counts. viewerID, when present, fills IsSubscribed.
	GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*entity.ChannelProfile, error)
}
