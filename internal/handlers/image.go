package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxImageSize is the largest accepted upload.
const maxImageSize = 10 << 20

// allowedImageTypes is the set of accepted image file extensions.
var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ImageHandler handles photo uploads for ingredient recognition.
type ImageHandler struct{}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// AnalyzeImage handles POST /v1/images/analyze
func (h *ImageHandler) AnalyzeImage(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != "" && !allowedImageTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type. Allowed: jpg, png, webp, gif"})
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds maximum size of 10MB"})
		return
	}

	imgBytes, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	names, err := ctl.AddFromImage(c.Request.Context(), imgBytes, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identified":  names,
		"ingredients": ctl.Ingredients(),
	})
}
