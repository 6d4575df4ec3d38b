package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/repository"
)

// PostRepositoryPostgres implements repository.PostRepository.
type PostRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewPostRepositoryPostgres(pool *pgxpool.Pool) *PostRepositoryPostgres {
	return &PostRepositoryPostgres{pool: pool}
}

func (r *PostRepositoryPostgres) Create(ctx context.Context, post *entity.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	query := `INSERT INTO posts (id, owner_id, content, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, query, post.ID, post.OwnerID, post.Content, post.CreatedAt); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	query := `SELECT id, owner_id, content, created_at FROM posts WHERE id = $1`
	post := &entity.Post{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&post.ID, &post.OwnerID, &post.Content, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

func (r *PostRepositoryPostgres) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]entity.Post, error) {
	query := `
		SELECT id, owner_id, content, created_at
		FROM posts
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

var _ repository.PostRepository = (*PostRepositoryPostgres)(nil)
