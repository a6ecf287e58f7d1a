package routes

import (
	"errors"
	"net/http"

	"smartnotes/smartnotes/services"
	"smartnotes/smartnotes/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes a domain error with its status and kind. Anything
// else is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.StatusCode(), gin.H{"error": domainErr.Message, "kind": domainErr.Kind})
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "kind": "unauthorized"})
		return
	}

	_ = c.Error(err)
	logger.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": "internal"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": services.KindValidation})
}

// principal returns the authenticated user id set by AuthMiddleware.
func principal(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "kind": "unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "kind": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
