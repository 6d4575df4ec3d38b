package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// WatchHistoryRepository keeps the append-only watch history per account and
// serves the joined read view (video + owner identity).
type WatchHistoryRepository interface {
	Append(ctx context.Context, userID, videoID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.WatchHistoryEntry, error)
}
