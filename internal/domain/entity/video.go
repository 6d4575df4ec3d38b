package entity

import (
	"time"

	"github.com/google/uuid"
)

// Video maps to the "videos" table. The service only reads videos for the
// watch-history view; publishing is owned by the video service.
type Video struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OwnerID      uuid.UUID `db:"owner_id" json:"ownerId"`
	VideoFileURL string    `db:"video_file_url" json:"videoFile"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Duration     float64   `db:"duration" json:"duration"`
	Views        int64     `db:"views" json:"views"`
	IsPublished  bool      `db:"is_published" json:"isPublished"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// WatchHistoryEntry is one row of a user's ordered watch history joined with
// the video and its owner.
type WatchHistoryEntry struct {
	Video     Video     `db:"-" json:"video"`
	OwnerName string    `db:"owner_username" json:"ownerUsername"`
	OwnerFull string    `db:"owner_full_name" json:"ownerFullName"`
	WatchedAt time.Time `db:"watched_at" json:"watchedAt"`
}
