package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"smartnotes/smartnotes/testutils"
	"smartnotes/smartnotes/testutils/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	hub := new(mocks.MockNotificationHub)
	hub.On("ConnectionCount").Return(2)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterHealthRoutes(router, db, hub)

	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, "ok", body["database"])
			assert.EqualValues(t, 2, body["websocket_connections"])
		})
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterHealthRoutes(router, db, nil)

	w := performRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"database":"unavailable"`)
	assert.NotContains(t, w.Body.String(), "closed")
}
