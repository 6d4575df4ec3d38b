package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post maps to the "posts" table, the community feed entries a channel
// publishes alongside its videos.
type Post struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"ownerId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
