package routes

import (
	"io"
	"net/http"

	"smartnotes/smartnotes/services"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(group *gin.RouterGroup, storageService services.StorageServiceInterface, maxBytes int64) {
	group.POST("/uploads", func(c *gin.Context) { UploadImage(c, storageService, maxBytes) })
}

// UploadImage stores the multipart "file" field and returns its URL, to be
// set as a note's image_url.
func UploadImage(c *gin.Context, storageService services.StorageServiceInterface, maxBytes int64) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if maxBytes > 0 && header.Size > maxBytes {
		badRequest(c, "file is too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := storageService.SaveImage(userID, header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
