package routes

import (
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

// RegisterTrashRoutes registers the trash listing. Per-note restore and
// purge live under /notes/:id.
func RegisterTrashRoutes(group *gin.RouterGroup, db *database.Database, trashService services.TrashServiceInterface) {
	group.GET("/trash", func(c *gin.Context) { GetTrashedNotes(c, db, trashService) })
	group.DELETE("/trash", func(c *gin.Context) { EmptyTrash(c, db, trashService) })
}

func GetTrashedNotes(c *gin.Context, db *database.Database, trashService services.TrashServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	notes, err := trashService.ListTrash(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func EmptyTrash(c *gin.Context, db *database.Database, trashService services.TrashServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	deleted, err := trashService.EmptyTrash(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
