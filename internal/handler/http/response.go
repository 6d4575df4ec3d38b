package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
)

// ResponseError is the error envelope every failed request returns.
type ResponseError struct {
	Error string `json:"error"`
}

// ResponseSuccess is the envelope for successful responses that carry both a
// message and data.
type ResponseSuccess struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithError maps a domain error to its HTTP status and writes the
// error envelope. Internal errors are masked with a generic message.
func RespondWithError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Internal error",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		message = "internal server error"
	} else {
		logger.Warn("Request failed",
			zap.Int("status", status),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, ResponseError{Error: message})
}

// RespondWithSuccess writes a message-plus-data envelope.
func RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, ResponseSuccess{Message: message, Data: data})
}

// RespondWithData writes a bare data payload.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func statusFromError(err error) int {
	switch {
	case domainErrors.IsBadRequest(err):
		return http.StatusBadRequest
	case domainErrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case domainErrors.IsNotFound(err):
		return http.StatusNotFound
	case domainErrors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
