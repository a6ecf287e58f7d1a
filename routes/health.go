package routes

import (
	"net/http"
	"time"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/utils/logger"

	"github.com/gin-gonic/gin"
)

// HubStats is the part of the notification hub the health check reports.
type HubStats interface {
	ConnectionCount() int
}

// RegisterHealthRoutes reports database reachability and open push
// connections.
func RegisterHealthRoutes(router *gin.Engine, db *database.Database, hub HubStats) {
	router.GET("/health", func(c *gin.Context) { Health(c, db, hub) })
	router.GET("/api/v1/health", func(c *gin.Context) { Health(c, db, hub) })
}

func Health(c *gin.Context, db *database.Database, hub HubStats) {
	status := http.StatusOK
	body := gin.H{"status": "ok", "time": time.Now().UTC()}

	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unavailable"
		logger.Log.Error().Err(err).Msg("Health check failed to reach the database")
	} else {
		body["database"] = "ok"
	}

	if hub != nil {
		body["websocket_connections"] = hub.ConnectionCount()
	}
	c.JSON(status, body)
}
