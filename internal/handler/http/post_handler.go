package http

import (
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

// PostHandler exposes community posts.
type PostHandler struct {
	postService *service.PostService
	logger      *zap.Logger
}

func NewPostHandler(postService *service.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger.Named("post_handler"),
	}
}

// CreatePost publishes a community post for the authenticated user.
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, h.logger, domainErrors.ErrUnauthorized)
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithSuccess(c, http.StatusCreated, "Post created", post)
}

// ListUserPosts lists a channel's posts, newest first.
// GET /api/v1/posts/user/:userId?limit=&offset=
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondWithError(c, h.logger, domainErrors.ErrInvalidRequest)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.postService.ListUserPosts(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		RespondWithError(c, h.logger, err)
		return
	}
	RespondWithData(c, http.StatusOK, posts)
}
