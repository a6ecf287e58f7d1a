package routes

import (
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createFolderRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type createTagRequest struct {
	Name string `json:"name"`
}

func RegisterFolderRoutes(group *gin.RouterGroup, db *database.Database, folderService services.FolderServiceInterface, tagService services.TagServiceInterface) {
	group.GET("/folders", func(c *gin.Context) { GetFolders(c, db, folderService) })
	group.POST("/folders", func(c *gin.Context) { CreateFolder(c, db, folderService) })
	group.PATCH("/folders/:id", func(c *gin.Context) { UpdateFolder(c, db, folderService) })
	group.DELETE("/folders/:id", func(c *gin.Context) { DeleteFolder(c, db, folderService) })

	group.GET("/tags", func(c *gin.Context) { GetTags(c, db, tagService) })
	group.POST("/tags", func(c *gin.Context) { CreateTag(c, db, tagService) })
}

func GetFolders(c *gin.Context, db *database.Database, folderService services.FolderServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	folders, err := folderService.ListFolders(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func CreateFolder(c *gin.Context, db *database.Database, folderService services.FolderServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var request createFolderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err.Error())
		return
	}

	folder, err := folderService.CreateFolder(db, userID, request.Name, request.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func UpdateFolder(c *gin.Context, db *database.Database, folderService services.FolderServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch models.FolderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}

	folder, err := folderService.UpdateFolder(db, userID, folderID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func DeleteFolder(c *gin.Context, db *database.Database, folderService services.FolderServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	folderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := folderService.DeleteFolder(db, userID, folderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	tags, err := tagService.ListTags(db, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func CreateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var request createTagRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err.Error())
		return
	}

	tag, err := tagService.CreateTag(db, userID, request.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}
