package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/domain/entity"
)

// TokenType discriminates the two token classes inside claims so one class
// can never be replayed as the other.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// AccessTokenClaims carries enough identity for stateless checks downstream.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	TokenType string `json:"token_type"`
}

// RefreshTokenClaims carries only the user id; everything else is looked up
// against server-held state on refresh.
type RefreshTokenClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
}

// TokenManager signs and verifies the two token classes with independent
// secrets and TTLs, both injected at construction.
type TokenManager interface {
	GenerateAccessToken(user *entity.User) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// Parse methods fail with ErrExpiredToken or ErrInvalidToken; "token is
	// fine but user unknown" is the caller's distinction to make.
	ParseAccessToken(tokenString string) (*AccessTokenClaims, error)
	ParseRefreshToken(tokenString string) (*RefreshTokenClaims, error)
}
