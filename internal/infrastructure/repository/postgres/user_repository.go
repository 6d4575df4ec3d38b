package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/repository"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url,
	cover_image_url, refresh_token, created_at, updated_at`

// UserRepositoryPostgres implements repository.UserRepository on pgx.
type UserRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewUserRepositoryPostgres(pool *pgxpool.Pool) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{pool: pool}
}

func (r *UserRepositoryPostgres) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return domainErrors.ErrEmailExists
			}
			if strings.Contains(pgErr.ConstraintName, "username") {
				return domainErrors.ErrUsernameExists
			}
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// FindByUsernameOrEmail matches either field alone; an empty argument never
// matches anything.
func (r *UserRepositoryPostgres) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, username, email))
}

func (r *UserRepositoryPostgres) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken is the compare-and-swap of the session state: the update
// applies only while the stored token still equals oldToken, so a superseded
// token can never rotate again.
func (r *UserRepositoryPostgres) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error {
	query := `
		UPDATE users SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2
	`
	tag, err := r.pool.Exec(ctx, query, userID, oldToken, newToken)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrRefreshTokenUsed
	}
	return nil
}

func (r *UserRepositoryPostgres) ClearRefreshToken(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *UserRepositoryPostgres) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPostgres) UpdateAccountDetails(ctx context.Context, userID uuid.UUID, fullName, email, username string) (*entity.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, username = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := r.scanOne(r.pool.QueryRow(ctx, query, userID, fullName, email, username))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, domainErrors.ErrEmailExists
			}
			return nil, domainErrors.ErrUsernameExists
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryPostgres) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*entity.User, error) {
	query := `
		UPDATE users SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, userID, avatarURL))
}

func (r *UserRepositoryPostgres) UpdateCoverImage(ctx context.Context, userID uuid.UUID, coverImageURL string) (*entity.User, error) {
	query := `
		UPDATE users SET cover_image_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, userID, coverImageURL))
}

func (r *UserRepositoryPostgres) scanOne(row pgx.Row) (*entity.User, error) {
	user := &entity.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash,
		&user.AvatarURL, &user.CoverImageURL, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)
