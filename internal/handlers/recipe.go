package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecipeHandler is the handler for recipe generation, the cookbook and
// favorites.
type RecipeHandler struct{}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler() *RecipeHandler {
	return &RecipeHandler{}
}

// GenerateRecipe runs the recipe pipeline for the workspace's ingredients.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	recipe, err := ctl.GenerateRecipe(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// RateCurrentRecipe handles POST /v1/recipes/current/rating
func (h *RecipeHandler) RateCurrentRecipe(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating is required"})
		return
	}

	recipe, err := ctl.SetRating(c.Request.Context(), request.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// SaveCurrentRecipe handles POST /v1/recipes/current/save
func (h *RecipeHandler) SaveCurrentRecipe(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	saved, err := ctl.SaveCurrentRecipe(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// ToggleCurrentFavorite handles POST /v1/recipes/current/favorite
func (h *RecipeHandler) ToggleCurrentFavorite(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	favorite, err := ctl.ToggleCurrentFavorite(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

// ListSaved handles GET /v1/recipes/saved
func (h *RecipeHandler) ListSaved(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": ctl.SavedRecipes(c.Request.Context())})
}

// DeleteSaved handles DELETE /v1/recipes/saved/:key
func (h *RecipeHandler) DeleteSaved(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	if err := ctl.DeleteSaved(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectSaved handles POST /v1/recipes/saved/:key/select
func (h *RecipeHandler) SelectSaved(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	recipe, err := ctl.SelectRecipe(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// ListFavorites handles GET /v1/recipes/favorites
func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": ctl.FavoriteRecipes(c.Request.Context())})
}

// ToggleFavorite handles POST /v1/recipes/favorites/:key/toggle
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	favorite, err := ctl.ToggleFavorite(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}
