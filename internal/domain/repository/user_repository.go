package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// UserRepository is the credential store contract. Username and email are
// stored lowercase; lookups are exact after normalization.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByUsernameOrEmail matches on username OR email; either field alone
	// is enough to identify the account. Returns ErrUserNotFound when neither
	// matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)

	// SetRefreshToken unconditionally installs token as the account's current
	// refresh token, superseding any prior one.
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error

	// RotateRefreshToken replaces oldToken with newToken in a single
	// conditional update. Returns ErrRefreshTokenUsed when the stored token no
	// longer equals oldToken, so two concurrent rotations cannot both win.
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error

	// ClearRefreshToken sets the column to NULL, not empty string, so a blank
	// presented token can never match.
	ClearRefreshToken(ctx context.Context, userID uuid.UUID) error

	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, userID uuid.UUID, fullName, email, username string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*entity.User, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, coverImageURL string) (*entity.User, error)
}
