package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamnest/user-service/internal/config"
	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	domainService "github.com/streamnest/user-service/internal/domain/service"
)

// jwtTokenManager signs HS256 tokens with separate access and refresh
// secrets so the blast radius of a leaked access token stays bounded.
type jwtTokenManager struct {
	cfg config.JWTConfig
}

// NewJWTTokenManager builds a TokenManager from injected configuration.
func NewJWTTokenManager(cfg config.JWTConfig) (domainService.TokenManager, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("jwt: both token secrets must be set")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("jwt: token TTLs must be positive")
	}
	return &jwtTokenManager{cfg: cfg}, nil
}

func (m *jwtTokenManager) GenerateAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &domainService.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.cfg.Issuer,
		},
		UserID:    user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		TokenType: string(domainService.AccessToken),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.AccessTokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (m *jwtTokenManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &domainService.RefreshTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.RefreshTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.cfg.Issuer,
		},
		UserID:    userID.String(),
		TokenType: string(domainService.RefreshToken),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.RefreshTokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

func (m *jwtTokenManager) ParseAccessToken(tokenString string) (*domainService.AccessTokenClaims, error) {
	claims := &domainService.AccessTokenClaims{}
	if err := m.parse(tokenString, claims, m.cfg.AccessTokenSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != string(domainService.AccessToken) {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *jwtTokenManager) ParseRefreshToken(tokenString string) (*domainService.RefreshTokenClaims, error) {
	claims := &domainService.RefreshTokenClaims{}
	if err := m.parse(tokenString, claims, m.cfg.RefreshTokenSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != string(domainService.RefreshToken) {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *jwtTokenManager) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainErrors.ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return domainErrors.ErrInvalidToken
	}
	return nil
}

var _ domainService.TokenManager = (*jwtTokenManager)(nil)
