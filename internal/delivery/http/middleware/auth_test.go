package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeai-server/internal/model"
	"lifeai-server/internal/service"
)

func authedRouter(verify TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(verify), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return r
}

func TestBearerTokenClassifiesHeaders(t *testing.T) {
	_, err := bearerToken("")
	require.ErrorIs(t, err, model.ErrTokenMissing)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := bearerToken(header)
		require.ErrorIs(t, err, model.ErrTokenInvalid, "header %q", header)
	}

	token, err := bearerToken("bearer tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := authedRouter(func(string) (*service.Claims, error) {
		t.Fatal("verifier must not run without a token")
		return nil, nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r := authedRouter(func(string) (*service.Claims, error) {
		t.Fatal("verifier must not run on a malformed header")
		return nil, nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header")
}

func TestAuthRejectsBadToken(t *testing.T) {
	r := authedRouter(func(string) (*service.Claims, error) {
		return nil, model.ErrTokenExpired
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthStoresUserID(t *testing.T) {
	userID := uuid.New()
	r := authedRouter(func(token string) (*service.Claims, error) {
		require.Equal(t, "good", token)
		return &service.Claims{UserID: userID}, nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
