package http

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/config"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/models"
	"github.com/streamnest/user-service/internal/handler/http/middleware"
	"github.com/streamnest/user-service/internal/infrastructure/client/s3"
	"github.com/streamnest/user-service/internal/service"
)

const (
	refreshTokenCookie = "refreshToken"
	accessTokenCookie  = "accessToken"

	maxUploadBytes = 8 << 20
)

// AuthHandler exposes the session lifecycle over HTTP.
type AuthHandler struct {
	authService *service.AuthService
	media       s3.MediaStorage
	cfg         *config.Config
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, media s3.MediaStorage, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		media:       media,
		cfg:         cfg,
		logger:      logger.Named("auth_handler"),
	}
}

// Register handles account creation.
// POST /api/v1/users/register (multipart/form-data)
func (h *AuthHandler) Register(c *gin.Context) {
	req := models.RegisterRequest{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		FullName: c.PostForm("fullName"),
		Password: c.PostForm("password"),
	}

	// Media is uploaded under a fresh namespace before the account row
	// exists; the account only stores the resulting URLs.
	uploadNS := uuid.New()

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrAvatarRequired)
		return
	}
	avatarURL, err := h.uploadFormFile(c, uploadNS, "avatar", avatarFile)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	req.AvatarURL = avatarURL

	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverURL, err := h.uploadFormFile(c, uploadNS, "cover", coverFile)
		if err != nil {
			RespondWithError(c, h.logger, err)
			return
		}
		req.CoverImageURL = coverURL
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondWithSuccess(c, http.StatusCreated, "User registered successfully", models.NewUserResponse(user))
}

// Login handles credential verification and token issuance.
// POST /api/v1/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, pair)
	RespondWithSuccess(c, http.StatusOK, "User logged in successfully", gin.H{
		"user":         models.NewUserResponse(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RefreshToken rotates the token pair. The incoming refresh token is read
// from the cookie first, then the request body.
// POST /api/v1/users/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	presented, _ := c.Cookie(refreshTokenCookie)
	if presented == "" {
		var req models.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.authService.Refresh(c.Request.Context(), presented)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, pair)
	RespondWithSuccess(c, http.StatusOK, "Access token refreshed", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout invalidates the stored refresh token and clears the auth cookies.
// POST /api/v1/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	h.clearAuthCookies(c)
	RespondWithSuccess(c, http.StatusOK, "User logged out", nil)
}

// ChangePassword verifies the old password and installs a new hash.
// POST /api/v1/users/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	RespondWithSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) uploadFormFile(c *gin.Context, ns uuid.UUID, kind string, header *multipart.FileHeader) (string, error) {
	data, contentType, err := readFormFile(header)
	if err != nil {
		return "", err
	}
	return h.media.Upload(c.Request.Context(), ns, kind, data, contentType)
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair models.TokenPair) {
	domain := h.cfg.Server.CookieDomain
	secure := h.cfg.Server.CookieSecure
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, int(h.cfg.JWT.AccessTokenTTL.Seconds()), "/", domain, secure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, int(h.cfg.JWT.RefreshTokenTTL.Seconds()), "/", domain, secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	domain := h.cfg.Server.CookieDomain
	secure := h.cfg.Server.CookieSecure
	c.SetCookie(accessTokenCookie, "", -1, "/", domain, secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", domain, secure, true)
}
