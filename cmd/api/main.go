package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/ingredai-api/internal/ai"
	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/db"
	"github.com/windoze95/ingredai-api/internal/kv"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/repository"
	"github.com/windoze95/ingredai-api/internal/router"
	"github.com/windoze95/ingredai-api/internal/s3"
	"github.com/windoze95/ingredai-api/internal/service"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix = "ingredai:"
	s3KeyPrefix    = "ingredai/kv/"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()
	ctx := context.Background()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	// Load prompts from YAML, falling back to the built-in set
	prompts, err := config.LoadPrompts(cfg.EnvVars.PromptsPath)
	if err != nil {
		logger.Get().Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	// Open the key-value store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Get().Fatal("failed to open key-value store", zap.Error(err), zap.String("backend", cfg.EnvVars.KVBackend))
	}
	defer closeStore()

	// AI provider setup. The selected text provider also reads photos.
	var textProvider ai.TextProvider
	var visionProvider ai.VisionProvider
	switch cfg.EnvVars.TextProvider {
	case config.ProviderAnthropic:
		anthropicProvider := ai.NewAnthropicProvider(cfg.EnvVars.AnthropicAPIKey)
		textProvider = anthropicProvider
		visionProvider = anthropicProvider
	default:
		gemini, err := ai.NewGeminiProvider(ctx, cfg.EnvVars.GeminiAPIKey, cfg.EnvVars.GeminiModel)
		if err != nil {
			logger.Get().Fatal("failed to create Gemini provider", zap.Error(err))
		}
		defer gemini.Close()
		textProvider = gemini
		visionProvider = gemini
	}
	imageProvider := ai.NewDALLEProvider(cfg.EnvVars.OpenAIAPIKey)
	speechProvider := ai.NewWhisperProvider(cfg.EnvVars.OpenAIAPIKey, "")

	deps := service.Deps{
		Repo:     repository.NewWorkspaceRepository(store),
		Recipes:  service.NewRecipeService(cfg, textProvider, imageProvider),
		Images:   service.NewImageService(cfg, visionProvider),
		Profiles: service.NewProfileService(),
	}
	registry := service.NewRegistry(deps,
		service.WithCapacity(cfg.EnvVars.MaxWorkspaces),
		service.WithIdleTimeout(cfg.EnvVars.WorkspaceIdleTimeout),
	)

	// Create a new gin router
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(cfg, registry, speechProvider)

	// Run the server
	logger.Get().Info("starting server",
		zap.String("port", cfg.EnvVars.Port),
		zap.String("kv_backend", cfg.EnvVars.KVBackend),
		zap.String("text_provider", cfg.EnvVars.TextProvider),
	)
	if err := r.Run(":" + cfg.EnvVars.Port); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}

// openStore opens the key-value backend selected by KV_BACKEND. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.EnvVars.KVBackend {
	case config.BackendMemory:
		logger.Get().Warn("using in-memory key-value store; state is lost on restart")
		return kv.NewMemory(), noop, nil

	case config.BackendDatabase:
		database, err := db.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := database.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		return kv.NewGormStore(database), func() { sqlDB.Close() }, nil

	case config.BackendRedis:
		store, err := kv.NewRedisStore(ctx, cfg.EnvVars.RedisURL, redisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.BackendS3:
		bucket, err := s3.NewBucket(ctx, cfg, s3KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewS3Store(bucket), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.EnvVars.KVBackend)
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
