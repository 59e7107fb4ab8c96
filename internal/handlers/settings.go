package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/models"
)

// SettingsHandler serves the workspace snapshot, theme and preferences.
type SettingsHandler struct{}

// NewSettingsHandler is the constructor function for initializing a new SettingsHandler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// GetState handles GET /v1/state
func (h *SettingsHandler) GetState(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ctl.State(c.Request.Context())})
}

// ToggleTheme handles POST /v1/theme/toggle
func (h *SettingsHandler) ToggleTheme(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	theme, err := ctl.ToggleTheme(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// SetTheme handles PUT /v1/theme
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Theme models.Theme `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || !request.Theme.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Theme must be light or dark"})
		return
	}

	if err := ctl.SetTheme(c.Request.Context(), request.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": request.Theme})
}

// UpdatePreferences handles PUT /v1/preferences
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences"})
		return
	}

	if err := ctl.UpdatePreferences(c.Request.Context(), prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
