package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

// APIError is the uniform error body.
type APIError struct {
	Error string `json:"error"`
}

// handleServiceError maps service errors onto HTTP statuses. Unknown errors
// become 500 without leaking internals.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, APIError{Error: "not found"})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, APIError{Error: "access forbidden"})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, APIError{Error: "invalid credentials"})
	case errors.Is(err, model.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, APIError{Error: "user already exists"})
	case errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenMissing):
		c.JSON(http.StatusUnauthorized, APIError{Error: "authentication required"})
	case errors.Is(err, model.ErrGenerationFailed),
		errors.Is(err, model.ErrMalformedModelOutput):
		logger.Error("Generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, APIError{Error: "generation failed"})
	case errors.Is(err, model.ErrStorageFailed):
		logger.Error("Upstream storage failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, APIError{Error: "upstream storage failed"})
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Error: "internal server error"})
	}
}
