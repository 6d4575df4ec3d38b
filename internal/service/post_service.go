package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/repository"
)

// PostService manages the community posts a channel publishes.
type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost publishes a new community post for the authenticated user.
func (s *PostService) CreatePost(ctx context.Context, ownerID uuid.UUID, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domainErrors.ErrInvalidRequest)
	}

	post := &entity.Post{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListUserPosts returns a channel's posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]entity.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListByOwner(ctx, ownerID, limit, offset)
}
