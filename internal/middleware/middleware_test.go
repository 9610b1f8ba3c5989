package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/middleware"
	"github.com/SscSPs/smb_books_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func newRouter(t *testing.T, rate string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lim, err := middleware.NewLimiter(rate)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(secret), middleware.RateLimit(lim), func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, userID)
	})
	return r
}

func call(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(t, "100-M")
	valid, err := utils.GenerateJWT("user-1", secret, time.Hour, "test")
	require.NoError(t, err)
	expired, err := utils.GenerateJWT("user-1", secret, -time.Minute, "test")
	require.NoError(t, err)
	foreign, err := utils.GenerateJWT("user-1", "other-secret", time.Hour, "test")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, "authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Bearer {token}"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Token has expired"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "Token signature is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRateLimitIsPerUser(t *testing.T) {
	r := newRouter(t, "2-M")
	alice, err := utils.GenerateJWT("alice", secret, time.Hour, "test")
	require.NoError(t, err)
	bob, err := utils.GenerateJWT("bob", secret, time.Hour, "test")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := call(r, "Bearer "+alice)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := call(r, "Bearer "+alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = call(r, "Bearer "+bob)
	assert.Equal(t, http.StatusOK, w.Code)
}
