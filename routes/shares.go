package routes

import (
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

type createShareRequest struct {
	Username string `json:"username"`
}

func RegisterShareRoutes(group *gin.RouterGroup, db *database.Database, shareService services.ShareServiceInterface, notificationService services.NotificationServiceInterface) {
	group.GET("/shares/pending", func(c *gin.Context) { GetPendingShares(c, db, notificationService) })
	group.GET("/shares/pending/count", func(c *gin.Context) { CountPendingShares(c, db, notificationService) })
	group.POST("/shares/:id/accept", func(c *gin.Context) { AcceptShare(c, db, shareService) })
	group.POST("/shares/:id/reject", func(c *gin.Context) { RejectShare(c, db, shareService) })

	group.GET("/notes/:id/shares", func(c *gin.Context) { GetNoteShares(c, db, shareService) })
	group.POST("/notes/:id/shares", func(c *gin.Context) { CreateShare(c, db, shareService) })
}

func CreateShare(c *gin.Context, db *database.Database, shareService services.ShareServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request createShareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err.Error())
		return
	}

	grant, err := shareService.CreateShare(db, userID, noteID, request.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func GetNoteShares(c *gin.Context, db *database.Database, shareService services.ShareServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	grants, err := shareService.ListNoteShares(db, userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grants)
}

func GetPendingShares(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	pending, err := notificationService.PendingFeed(c.Request.Context(), db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

func CountPendingShares(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	count, err := notificationService.PendingCount(c.Request.Context(), db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func AcceptShare(c *gin.Context, db *database.Database, shareService services.ShareServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	grantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	grant, err := shareService.AcceptShare(db, userID, grantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

func RejectShare(c *gin.Context, db *database.Database, shareService services.ShareServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	grantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	grant, err := shareService.RejectShare(db, userID, grantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}
