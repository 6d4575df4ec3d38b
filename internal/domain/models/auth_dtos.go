package models

// LoginRequest carries login credentials; either Username or Email must be
// set, the store lookup accepts one alone.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the identity fields for a new account. The avatar
// arrives as multipart file content and is attached by the handler after
// upload, so it is not part of the JSON body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`

	AvatarURL     string
	CoverImageURL string
}

// RefreshRequest is the body fallback when the refresh token is not carried
// in the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest carries a password change for the authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// TokenPair is the result of login and refresh. The refresh token is also
// persisted on the account; access tokens are never stored.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
