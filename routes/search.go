package routes

import (
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

func RegisterSearchRoutes(group *gin.RouterGroup, db *database.Database, searchService services.SearchServiceInterface) {
	group.GET("/search", func(c *gin.Context) { Search(c, db, searchService) })
}

func Search(c *gin.Context, db *database.Database, searchService services.SearchServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	notes, err := searchService.Search(db, userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}
