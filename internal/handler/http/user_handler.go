package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/models"
	"github.com/streamnest/user-service/internal/handler/http/middleware"
	"github.com/streamnest/user-service/internal/service"
)

// UserHandler exposes profile, channel and watch-history endpoints.
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.Named("user_handler"),
	}
}

// CurrentUser returns the authenticated account.
// GET /api/v1/users/current-user
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithData(c, http.StatusOK, models.NewUserResponse(user))
}

// UpdateAccount updates the display fields.
// PATCH /api/v1/users/update-account
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	user, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Account details updated", models.NewUserResponse(user))
}

// UpdateAvatar replaces the account avatar.
// PATCH /api/v1/users/avatar (multipart/form-data)
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrAvatarRequired)
		return
	}
	data, contentType, err := readFormFile(header)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, data, contentType)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Avatar updated", models.NewUserResponse(user))
}

// UpdateCoverImage replaces the channel cover image.
// PATCH /api/v1/users/cover-image (multipart/form-data)
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("coverImage")
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}
	data, contentType, err := readFormFile(header)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}

	user, err := h.userService.UpdateCoverImage(c.Request.Context(), userID, data, contentType)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Cover image updated", models.NewUserResponse(user))
}

// ChannelProfile returns the public channel view for a username. When the
// request is authenticated the response carries the viewer's subscription
// state.
// GET /api/v1/users/c/:username
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	var viewerID *uuid.UUID
	if userID, ok := middleware.UserIDFromContext(c); ok {
		viewerID = &userID
	}

	profile, err := h.userService.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithData(c, http.StatusOK, profile)
}

// Subscribe adds the viewer as a subscriber of the channel.
// POST /api/v1/subscriptions/:channelId
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}
	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	if err := h.userService.Subscribe(c.Request.Context(), userID, channelID); err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Subscribed", nil)
}

// Unsubscribe removes the viewer's subscription to the channel.
// DELETE /api/v1/subscriptions/:channelId
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}
	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	if err := h.userService.Unsubscribe(c.Request.Context(), userID, channelID); err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Unsubscribed", nil)
}

// WatchHistory lists the viewer's watch history, newest first.
// GET /api/v1/users/history?limit=&offset=
func (h *UserHandler) WatchHistory(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	history, err := h.userService.GetWatchHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithData(c, http.StatusOK, history)
}

// RecordWatch appends a video to the viewer's watch history.
// POST /api/v1/users/history/:videoId
func (h *UserHandler) RecordWatch(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	if err := h.userService.AddToWatchHistory(c.Request.Context(), userID, videoID); err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, "Watch history updated", nil)
}

func readFormFile(header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > maxUploadBytes {
		return nil, "", domainErrors.ErrInvalidRequest
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", domainErrors.ErrUploadFailed
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", domainErrors.ErrUploadFailed
	}
	return data, header.Header.Get("Content-Type"), nil
}
