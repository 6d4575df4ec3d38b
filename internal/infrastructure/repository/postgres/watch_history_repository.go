package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/repository"
)

// WatchHistoryRepositoryPostgres implements repository.WatchHistoryRepository.
type WatchHistoryRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewWatchHistoryRepositoryPostgres(pool *pgxpool.Pool) *WatchHistoryRepositoryPostgres {
	return &WatchHistoryRepositoryPostgres{pool: pool}
}

func (r *WatchHistoryRepositoryPostgres) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	query := `
		INSERT INTO watch_history (id, user_id, video_id, watched_at)
		VALUES ($1, $2, $3, now())
	`
	if _, err := r.pool.Exec(ctx, query, uuid.New(), userID, videoID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domainErrors.ErrVideoNotFound
		}
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// ListByUser joins the history with the videos and their owners, newest
// first.
func (r *WatchHistoryRepositoryPostgres) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.WatchHistoryEntry, error) {
	query := `
		SELECT v.id, v.owner_id, v.video_file_url, v.thumbnail_url, v.title,
		       v.description, v.duration, v.views, v.is_published, v.created_at,
		       o.username, o.full_name, h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users o  ON o.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}
	defer rows.Close()

	var entries []entity.WatchHistoryEntry
	for rows.Next() {
		var e entity.WatchHistoryEntry
		err := rows.Scan(
			&e.Video.ID, &e.Video.OwnerID, &e.Video.VideoFileURL, &e.Video.ThumbnailURL,
			&e.Video.Title, &e.Video.Description, &e.Video.Duration, &e.Video.Views,
			&e.Video.IsPublished, &e.Video.CreatedAt,
			&e.OwnerName, &e.OwnerFull, &e.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch history: %w", err)
	}
	return entries, nil
}

var _ repository.WatchHistoryRepository = (*WatchHistoryRepositoryPostgres)(nil)
