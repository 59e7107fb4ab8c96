package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/ingredient"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/middleware"
	"github.com/windoze95/ingredai-api/internal/repository"
	"github.com/windoze95/ingredai-api/internal/service"
	"go.uber.org/zap"
)

// parseIndexParam parses a non-negative list index.
func parseIndexParam(param string) (int, error) {
	parsed, err := strconv.Atoi(param)
	if err != nil {
		return 0, err
	}
	if parsed < 0 {
		return 0, errors.New("index must not be negative")
	}
	return parsed, nil
}

// controllerOrAbort returns the workspace controller, or writes a 500 and
// returns nil when the middleware chain did not attach one.
func controllerOrAbort(c *gin.Context) *service.Controller {
	ctl, ok := middleware.GetControllerFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workspace not initialised"})
		c.Abort()
		return nil
	}
	return ctl
}

// respondError writes the status and body for an error returned by the
// controller.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var notFound repository.NotFoundError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": verr.Fields})
	case errors.Is(err, service.ErrNoIngredients),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrNoRecipe),
		errors.Is(err, service.ErrConfirmationMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound), errors.Is(err, ingredient.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRecipeGeneration):
		logger.FromGin(c).Error("recipe generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": service.ErrRecipeGeneration.Error()})
	case errors.Is(err, service.ErrImageAnalysis):
		logger.FromGin(c).Error("image analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": service.ErrImageAnalysis.Error()})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	case errors.Is(err, service.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrPersistence.Error()})
	default:
		logger.FromGin(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
