package middleware

import (
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware is AuthMiddleware that also accepts the token in
// the "token" query parameter, since browsers cannot set headers on a
// WebSocket upgrade.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return authenticate(authService, true)
}
