package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/driftnote/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize("error", "/tmp/driftnote-auth-test.log")
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService([]byte("test-secret"))

	token, err := svc.GenerateToken("u123")
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u123", userID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewService([]byte("secret-a")).GenerateToken("u123")
	require.NoError(t, err)

	_, err = NewService([]byte("secret-b")).ParseToken(token)
	assert.Error(t, err)
}

func viewerEcho(svc *Service) *gin.Engine {
	r := gin.New()
	r.Use(svc.OptionalViewerMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, ViewerID(c))
	})
	return r
}

func TestOptionalViewerMiddleware(t *testing.T) {
	svc := NewService([]byte("test-secret"))
	r := viewerEcho(svc)

	token, err := svc.GenerateToken("u123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u123", w.Body.String())
}

func TestOptionalViewerMiddlewareAnonymous(t *testing.T) {
	svc := NewService([]byte("test-secret"))
	r := viewerEcho(svc)

	// No header at all
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	// Garbage token stays anonymous instead of failing the request
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
