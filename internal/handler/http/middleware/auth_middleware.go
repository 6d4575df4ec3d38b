package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainService "github.com/streamnest/user-service/internal/domain/service"
)

const (
	AuthHeaderKey  = "Authorization"
	AuthTypeBearer = "Bearer"

	GinContextUserIDKey   = "userID"
	GinContextUsernameKey = "username"
	GinContextClaimsKey   = "claims"

	accessTokenCookie = "accessToken"
)

// AuthMiddleware rejects requests that do not carry a valid access token. The
// token is read from the Authorization header, falling back to the
// accessToken cookie set at login.
func AuthMiddleware(tokenManager domainService.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized request"})
			return
		}

		claims, err := tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			logger.Warn("Invalid access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			logger.Warn("Access token carries malformed user id", zap.String("user_id", claims.UserID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(GinContextClaimsKey, claims)
		c.Set(GinContextUserIDKey, userID)
		c.Set(GinContextUsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a token is present but
// never rejects the request. Public endpoints that personalize their response
// (channel profiles) sit behind this.
func OptionalAuthMiddleware(tokenManager domainService.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			logger.Debug("Ignoring invalid access token on public endpoint", zap.Error(err))
			c.Next()
			return
		}
		if userID, err := uuid.Parse(claims.UserID); err == nil {
			c.Set(GinContextClaimsKey, claims)
			c.Set(GinContextUserIDKey, userID)
			c.Set(GinContextUsernameKey, claims.Username)
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's ID set by
// AuthMiddleware.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(GinContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func extractAccessToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], AuthTypeBearer) {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
