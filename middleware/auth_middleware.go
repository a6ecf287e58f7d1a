package middleware

import (
	"net/http"

	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware authenticates requests with a bearer JWT and stores the
// principal under "userID".
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return authenticate(authService, false)
}

func authenticate(authService services.AuthServiceInterface, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c, allowQuery)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "kind": "unauthorized"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "kind": "unauthorized"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
