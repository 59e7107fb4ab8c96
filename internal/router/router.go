package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/handlers"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/metrics"
	"github.com/windoze95/ingredai-api/internal/middleware"
	"github.com/windoze95/ingredai-api/internal/service"
	"github.com/windoze95/ingredai-api/internal/voice"
	"github.com/windoze95/ingredai-api/internal/ws"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterExpiration      = 10 * time.Minute
)

// SetupRouter sets up the Gin router. speech may be nil, in which case the
// voice socket only accepts text transcripts.
func SetupRouter(cfg *config.Config, registry *service.Registry, speech voice.Transcriber) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = []string{
		"https://ingredai.app",
		"https://www.ingredai.app",
		"http://localhost:3000",
	}
	corsConfig.AddAllowHeaders(cfg.EnvVars.WorkspaceHeader, "X-Request-ID")
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())
	r.Use(metrics.Middleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", metrics.Handler())

	// Voice socket. Its controllers broadcast state to the workspace room.
	hub := ws.NewHub()
	go hub.Run()
	voiceSocket := ws.NewVoiceHandler(hub, registry, speech)

	ingredientHandler := handlers.NewIngredientHandler()
	recipeHandler := handlers.NewRecipeHandler()
	imageHandler := handlers.NewImageHandler()
	voiceHandler := handlers.NewVoiceHandler()
	settingsHandler := handlers.NewSettingsHandler()
	userHandler := handlers.NewUserHandler()

	// Every API route acts on the workspace named by the request
	v1 := r.Group("/v1")
	v1.Use(middleware.RequireWorkspace(cfg.EnvVars.WorkspaceHeader))

	v1.GET("/ws/voice", voiceSocket.HandleVoiceSession)

	api := v1.Group("")
	api.Use(middleware.AttachController(registry))
	{
		// Expensive provider calls are rate limited per workspace
		generateLimit := middleware.RateLimitByWorkspace(cfg.EnvVars.GenerateRPS, limiterCleanupInterval, limiterExpiration)

		// Workspace snapshot
		api.GET("/state", settingsHandler.GetState)

		// Ingredient routes
		api.GET("/ingredients", ingredientHandler.ListIngredients)
		api.POST("/ingredients", ingredientHandler.AddIngredient)
		api.PUT("/ingredients", ingredientHandler.ReplaceIngredients)
		api.DELETE("/ingredients", ingredientHandler.ClearIngredients)
		api.PUT("/ingredients/:index", ingredientHandler.UpdateIngredient)
		api.DELETE("/ingredients/:index", ingredientHandler.RemoveIngredient)

		// Recipe routes
		api.POST("/recipes/generate", generateLimit, recipeHandler.GenerateRecipe)
		api.POST("/recipes/current/rating", recipeHandler.RateCurrentRecipe)
		api.POST("/recipes/current/save", recipeHandler.SaveCurrentRecipe)
		api.POST("/recipes/current/favorite", recipeHandler.ToggleCurrentFavorite)
		api.GET("/recipes/saved", recipeHandler.ListSaved)
		api.DELETE("/recipes/saved/:key", recipeHandler.DeleteSaved)
		api.POST("/recipes/saved/:key/select", recipeHandler.SelectSaved)
		api.GET("/recipes/favorites", recipeHandler.ListFavorites)
		api.POST("/recipes/favorites/:key/toggle", recipeHandler.ToggleFavorite)

		// Photo ingredient recognition
		api.POST("/images/analyze", generateLimit, imageHandler.AnalyzeImage)

		// Text voice commands
		api.POST("/voice/transcript", voiceHandler.SubmitTranscript)

		// Settings routes
		api.POST("/theme/toggle", settingsHandler.ToggleTheme)
		api.PUT("/theme", settingsHandler.SetTheme)
		api.PUT("/preferences", settingsHandler.UpdatePreferences)

		// Profile routes
		api.GET("/profile", userHandler.GetProfile)
		api.POST("/profile/signup", userHandler.Signup)
		api.POST("/profile/login", userHandler.Login)
		api.POST("/profile/logout", userHandler.Logout)
		api.PUT("/profile/account", userHandler.UpdateAccount)
		api.DELETE("/profile", userHandler.DeleteAccount)

		// Security and data routes
		api.POST("/security/password", userHandler.ChangePassword)
		api.POST("/security/2fa/toggle", userHandler.ToggleTwoFactor)
		api.DELETE("/data", userHandler.ClearData)
	}

	return r
}
