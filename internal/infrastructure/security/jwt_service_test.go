package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamnest/user-service/internal/config"
	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    10 * 24 * time.Hour,
		Issuer:             "test-issuer",
	}
}

func TestNewJWTTokenManager_Validation(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenSecret = ""
	_, err := NewJWTTokenManager(cfg)
	assert.Error(t, err)

	cfg = testJWTConfig()
	cfg.RefreshTokenTTL = 0
	_, err = NewJWTTokenManager(cfg)
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager, err := NewJWTTokenManager(testJWTConfig())
	require.NoError(t, err)

	user := &entity.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
	}

	tokenString, err := manager.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := manager.ParseAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice Example", claims.FullName)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	manager, err := NewJWTTokenManager(testJWTConfig())
	require.NoError(t, err)

	userID := uuid.New()
	tokenString, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	claims, err := manager.ParseRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestParseAccessToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = time.Nanosecond
	manager, err := NewJWTTokenManager(cfg)
	require.NoError(t, err)

	tokenString, err := manager.GenerateAccessToken(&entity.User{ID: uuid.New()})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = manager.ParseAccessToken(tokenString)
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

// A refresh token must never be accepted where an access token is expected,
// and vice versa. The secrets differ, so cross-parsing fails on signature.
func TestParse_RejectsCrossTokenType(t *testing.T) {
	manager, err := NewJWTTokenManager(testJWTConfig())
	require.NoError(t, err)

	refreshToken, err := manager.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = manager.ParseAccessToken(refreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)

	accessToken, err := manager.GenerateAccessToken(&entity.User{ID: uuid.New()})
	require.NoError(t, err)
	_, err = manager.ParseRefreshToken(accessToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestParseRefreshToken_WrongSecret(t *testing.T) {
	manager, err := NewJWTTokenManager(testJWTConfig())
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.RefreshTokenSecret = "a-completely-different-secret"
	otherManager, err := NewJWTTokenManager(otherCfg)
	require.NoError(t, err)

	tokenString, err := manager.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = otherManager.ParseRefreshToken(tokenString)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	manager, err := NewJWTTokenManager(testJWTConfig())
	require.NoError(t, err)

	_, err = manager.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}
