package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifeai-server/internal/model"
	"lifeai-server/internal/service"
)

// Context keys set by the auth middleware.
const (
	ContextKeyUserID = "userID"
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier func(token string) (*service.Claims, error)

// Auth enforces a Bearer access token and stores the user id in the gin
// context under ContextKeyUserID.
func Auth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		claims, err := verify(token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. An absent
// header is model.ErrTokenMissing; a present but non-Bearer header is
// model.ErrTokenInvalid.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", model.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", model.ErrTokenInvalid
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, err error) {
	msg := "authentication required"
	if errors.Is(err, model.ErrTokenInvalid) {
		msg = "invalid authorization header"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// UserID extracts the authenticated user id from the gin context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
