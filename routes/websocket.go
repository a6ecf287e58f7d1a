package routes

import (
	"smartnotes/smartnotes/middleware"
	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/utils/logger"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes sets up the notification push endpoint.
func RegisterWebSocketRoutes(router *gin.Engine, authService services.AuthServiceInterface, hub services.NotificationHubInterface) {
	wsGroup := router.Group("/api/v1/ws")
	wsGroup.Use(middleware.WebSocketAuthMiddleware(authService))
	{
		wsGroup.GET("", func(c *gin.Context) {
			userID, ok := principal(c)
			if !ok {
				return
			}
			if err := hub.ServeWS(c.Writer, c.Request, userID); err != nil {
				// the upgrader has already written the error response
				logger.Log.Warn().Err(err).Msg("WebSocket upgrade failed")
			}
		})
	}
}
