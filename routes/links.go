package routes

import (
	"io"
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

type createLinkRequest struct {
	TTLMinutes *int `json:"ttl_minutes"`
}

func RegisterLinkRoutes(group *gin.RouterGroup, db *database.Database, linkService services.PublicLinkServiceInterface) {
	group.GET("/notes/:id/links", func(c *gin.Context) { GetPublicLinks(c, db, linkService) })
	group.POST("/notes/:id/links", func(c *gin.Context) { CreatePublicLink(c, db, linkService) })
	group.DELETE("/links/:id", func(c *gin.Context) { RevokePublicLink(c, db, linkService) })
}

// RegisterPublicRoutes mounts the anonymous link resolver.
func RegisterPublicRoutes(router *gin.Engine, db *database.Database, linkService services.PublicLinkServiceInterface) {
	router.GET("/api/v1/public/:token", func(c *gin.Context) { ResolvePublicLink(c, db, linkService) })
}

func CreatePublicLink(c *gin.Context, db *database.Database, linkService services.PublicLinkServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// the body is optional; no body means a link that never expires
	var request createLinkRequest
	if err := c.ShouldBindJSON(&request); err != nil && err != io.EOF {
		badRequest(c, err.Error())
		return
	}

	link, err := linkService.CreatePublicLink(db, userID, noteID, request.TTLMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func GetPublicLinks(c *gin.Context, db *database.Database, linkService services.PublicLinkServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	links, err := linkService.ListPublicLinks(db, userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func RevokePublicLink(c *gin.Context, db *database.Database, linkService services.PublicLinkServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	linkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := linkService.RevokePublicLink(db, userID, linkID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ResolvePublicLink(c *gin.Context, db *database.Database, linkService services.PublicLinkServiceInterface) {
	note, err := linkService.ResolvePublicLink(db, c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, note)
}
