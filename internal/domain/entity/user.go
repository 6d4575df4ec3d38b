package entity

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the "users" table. RefreshToken holds the single refresh
// token currently accepted for the account, or NULL when logged out; it is
// the only session state the service keeps.
type User struct {
	ID            uuid.UUID  `db:"id"`
	Username      string     `db:"username"`
	Email         string     `db:"email"`
	FullName      string     `db:"full_name"`
	PasswordHash  string     `db:"password_hash"`
	AvatarURL     string     `db:"avatar_url"`
	CoverImageURL *string    `db:"cover_image_url"` // Nullable
	RefreshToken  *string    `db:"refresh_token"`   // Nullable
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"` // Nullable
}
