package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/service"
)

type PhotoHandler struct {
	images *service.ImageService
}

func NewPhotoHandler(images *service.ImageService) *PhotoHandler {
	return &PhotoHandler{images: images}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/photos", h.UploadPhoto)
}

// UploadPhoto stores a base64-encoded meal photo and returns the URL to put
// in the meal record's image URI.
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo storage is not enabled"})
		return
	}

	var req UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be base64 encoded"})
		return
	}

	url, err := h.images.UploadMealPhoto(c.Request.Context(), data, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
