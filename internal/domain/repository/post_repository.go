package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// PostRepository stores community posts.
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]entity.Post, error)
}
