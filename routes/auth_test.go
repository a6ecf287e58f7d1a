package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/testutils/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter() (*gin.Engine, *mocks.MockAuthService) {
	authService := new(mocks.MockAuthService)
	router, _ := newTestRouter(uuid.Nil)
	RegisterAuthRoutes(router, testDB, authService)
	return router, authService
}

func TestRegister(t *testing.T) {
	input := models.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cret-pass"}

	t.Run("Success", func(t *testing.T) {
		router, authService := setupAuthRouter()
		authService.On("Register", mock.Anything, input).
			Return(models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/auth/register", input)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "s3cret-pass")
	})

	t.Run("MissingFields", func(t *testing.T) {
		router, authService := setupAuthRouter()

		w := performRequest(router, http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "alice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		router, authService := setupAuthRouter()
		authService.On("Register", mock.Anything, input).
			Return(models.User{}, services.NewConflictError("username is already taken"))

		w := performRequest(router, http.MethodPost, "/api/v1/auth/register", input)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, authService := setupAuthRouter()
		authService.On("Login", mock.Anything, "alice", "s3cret-pass").Return("signed.jwt.token", nil)

		w := performRequest(router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"login":    "alice",
			"password": "s3cret-pass",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var body loginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt.token", body.Token)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		router, authService := setupAuthRouter()
		authService.On("Login", mock.Anything, "alice", "wrong").Return("", services.ErrInvalidCredentials)

		w := performRequest(router, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"login":    "alice",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", errorKind(t, w))
	})
}
