package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/testutils/mocks"
	"smartnotes/smartnotes/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	userID, _ := c.Get("userID")
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": c.GetString("username")})
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	setup := func() (*gin.Engine, *mocks.MockAuthService) {
		authService := new(mocks.MockAuthService)
		router := gin.New()
		router.GET("/me", AuthMiddleware(authService), whoami)
		return router, authService
	}

	t.Run("ValidToken", func(t *testing.T) {
		router, authService := setup()
		authService.On("ValidateToken", "good").Return(&services.JWTClaims{UserID: userID, Username: "alice"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("MissingHeader", func(t *testing.T) {
		router, authService := setup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"unauthorized"`)
		authService.AssertNotCalled(t, "ValidateToken", mock.Anything)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		router, _ := setup()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RejectedToken", func(t *testing.T) {
		router, authService := setup()
		authService.On("ValidateToken", "expired").Return(nil, services.ErrInvalidToken)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer expired")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("IgnoresQueryToken", func(t *testing.T) {
		router, authService := setup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token=good", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authService.AssertNotCalled(t, "ValidateToken", mock.Anything)
	})
}

func TestWebSocketAuthMiddleware_QueryToken(t *testing.T) {
	userID := uuid.New()
	authService := new(mocks.MockAuthService)
	authService.On("ValidateToken", "good").Return(&services.JWTClaims{UserID: userID, Username: "alice"}, nil)

	router := gin.New()
	router.GET("/ws", WebSocketAuthMiddleware(authService), whoami)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token=good", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestCORSMiddleware(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("ConfiguredOrigin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware("https://app.example.com, https://admin.example.com"))
		router.GET("/notes", ok)

		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("UnknownOrigin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware("https://app.example.com"))
		router.GET("/notes", ok)

		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("Origin", "https://evil.example.net")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Wildcard", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware("*"))
		router.GET("/notes", ok)

		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("Origin", "https://anything.example.org")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := logger.Log
	logger.Log = zerolog.New(&buf)
	defer func() { logger.Log = previous }()

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestID")) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	t.Run("GeneratesID", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		id := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
		assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("PropagatesID", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("ServerErrorLevel", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), "boom")
	})
}

func TestMetrics(t *testing.T) {
	router := gin.New()
	Metrics(router, "smartnotes_test")
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "smartnotes_test_requests_total")
}
