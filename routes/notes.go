package routes

import (
	"net/http"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface, trashService services.TrashServiceInterface) {
	// Collection endpoints with query parameters
	group.GET("/notes", func(c *gin.Context) { GetNotes(c, db, noteService) })
	group.POST("/notes", func(c *gin.Context) { CreateNote(c, db, noteService) })

	// Resource-specific endpoints
	group.GET("/notes/:id", func(c *gin.Context) { GetNoteById(c, db, noteService) })
	group.PATCH("/notes/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
	group.PUT("/notes/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
	group.DELETE("/notes/:id", func(c *gin.Context) { TrashNote(c, db, trashService) })
	group.POST("/notes/:id/restore", func(c *gin.Context) { RestoreNote(c, db, trashService) })
	group.DELETE("/notes/:id/force", func(c *gin.Context) { ForceDeleteNote(c, db, trashService) })
}

func GetNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var filter models.NoteFilter
	if folder := c.Query("folder_id"); folder != "" {
		folderID, err := uuid.Parse(folder)
		if err != nil {
			badRequest(c, "invalid folder_id")
			return
		}
		filter.FolderID = &folderID
	}

	notes, err := noteService.ListNotes(db, userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var input models.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	note, err := noteService.CreateNote(db, userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	note, err := noteService.GetNote(db, userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch models.NotePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}

	note, err := noteService.UpdateNote(db, userID, noteID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func TrashNote(c *gin.Context, db *database.Database, trashService services.TrashServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := trashService.TrashNote(db, userID, noteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func RestoreNote(c *gin.Context, db *database.Database, trashService services.TrashServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	note, err := trashService.RestoreNote(db, userID, noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func ForceDeleteNote(c *gin.Context, db *database.Database, trashService services.TrashServiceInterface) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := trashService.ForceDeleteNote(db, userID, noteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
