package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/models"
)

// IngredientHandler is the handler for the ingredient list.
type IngredientHandler struct{}

// NewIngredientHandler is the constructor function for initializing a new IngredientHandler.
func NewIngredientHandler() *IngredientHandler {
	return &IngredientHandler{}
}

// ListIngredients handles GET /v1/ingredients
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ctl.Ingredients()})
}

// AddIngredient handles POST /v1/ingredients
func (h *IngredientHandler) AddIngredient(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var ing models.UserIngredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	ctl.AddIngredient(c.Request.Context(), ing)
	c.JSON(http.StatusCreated, gin.H{"ingredients": ctl.Ingredients()})
}

// ReplaceIngredients handles PUT /v1/ingredients
func (h *IngredientHandler) ReplaceIngredients(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Ingredients []models.UserIngredient `json:"ingredients" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient list"})
		return
	}

	ctl.ReplaceIngredients(c.Request.Context(), request.Ingredients)
	c.JSON(http.StatusOK, gin.H{"ingredients": ctl.Ingredients()})
}

// UpdateIngredient handles PUT /v1/ingredients/:index
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	index, err := parseIndexParam(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient index"})
		return
	}
	var ing models.UserIngredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	if err := ctl.UpdateIngredient(c.Request.Context(), index, ing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ctl.Ingredients()})
}

// RemoveIngredient handles DELETE /v1/ingredients/:index
func (h *IngredientHandler) RemoveIngredient(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	index, err := parseIndexParam(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient index"})
		return
	}

	if err := ctl.RemoveIngredient(c.Request.Context(), index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ctl.Ingredients()})
}

// ClearIngredients handles DELETE /v1/ingredients
func (h *IngredientHandler) ClearIngredients(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}
	ctl.ClearIngredients(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ingredients": ctl.Ingredients()})
}
