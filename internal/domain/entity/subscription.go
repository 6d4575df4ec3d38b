package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription maps to the "subscriptions" table: subscriber follows channel.
type Subscription struct {
	ID           uuid.UUID `db:"id"`
	SubscriberID uuid.UUID `db:"subscriber_id"`
	ChannelID    uuid.UUID `db:"channel_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// ChannelProfile is the public read view of an account: identity fields plus
// the aggregated subscriber counts for the channel page.
type ChannelProfile struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	FullName        string    `db:"full_name" json:"fullName"`
	AvatarURL       string    `db:"avatar_url" json:"avatar"`
	CoverImageURL   *string   `db:"cover_image_url" json:"coverImage,omitempty"`
	SubscriberCount int64     `db:"subscriber_count" json:"subscriberCount"`
	SubscribedTo    int64     `db:"subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed    bool      `db:"is_subscribed" json:"isSubscribed"`
}
