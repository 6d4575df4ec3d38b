package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// UserResponse is the account view returned to clients. Password hash and
// refresh token never leave the service.
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewUserResponse strips secrets from a user entity.
func NewUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
	if u.CoverImageURL != nil {
		resp.CoverImageURL = *u.CoverImageURL
	}
	return resp
}

// UpdateAccountRequest mutates the display attributes of an account. All
// three fields are required.
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// CreatePostRequest carries a new community post.
type CreatePostRequest struct {
	Content string `json:"content"`
}
