package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/windoze95/ingredai-api/internal/ai"
	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/metrics"
	"github.com/windoze95/ingredai-api/internal/models"
	"go.uber.org/zap"
)

// Pipeline stage names, as they appear in logs and metrics.
const (
	StageRecipe        = "recipe"
	StageSubstitutions = "substitutions"
	StageImage         = "image"
)

type stagePolicy int

const (
	// fatal stages abort the pipeline on error.
	fatal stagePolicy = iota
	// bestEffort stages log their error and leave the recipe without the
	// stage's contribution.
	bestEffort
)

type stage struct {
	name   string
	policy stagePolicy
	run    func(ctx context.Context, run *pipelineRun) error
}

// pipelineRun carries one request through the stages.
type pipelineRun struct {
	ingredients []models.UserIngredient
	prefs       models.Preferences
	recipe      *models.Recipe
}

// RecipeService is the business logic layer for recipe generation.
type RecipeService struct {
	Cfg           *config.Config
	TextProvider  ai.TextProvider
	ImageProvider ai.ImageProvider
	NewID         func() string
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
// imageProvider may be nil, in which case recipes carry no illustration.
func NewRecipeService(cfg *config.Config, textProvider ai.TextProvider, imageProvider ai.ImageProvider) *RecipeService {
	return &RecipeService{
		Cfg:           cfg,
		TextProvider:  textProvider,
		ImageProvider: imageProvider,
		NewID:         uuid.NewString,
	}
}

func (s *RecipeService) stages() []stage {
	return []stage{
		{name: StageRecipe, policy: fatal, run: s.generateRecipe},
		{name: StageSubstitutions, policy: bestEffort, run: s.suggestSubstitutions},
		{name: StageImage, policy: bestEffort, run: s.illustrate},
	}
}

// GenerateRecipe runs the pipeline for the given ingredients. Only a
// failure of the recipe stage is returned, wrapped in ErrRecipeGeneration;
// substitution and image failures are logged and leave those fields empty.
func (s *RecipeService) GenerateRecipe(ctx context.Context, ingredients []models.UserIngredient, prefs models.Preferences) (*models.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	run := &pipelineRun{ingredients: ingredients, prefs: prefs}
	for _, st := range s.stages() {
		start := time.Now()
		err := st.run(ctx, run)
		metrics.ObserveStage(st.name, start, err)
		if err == nil {
			continue
		}
		if st.policy == fatal {
			return nil, fmt.Errorf("%w: %w", ErrRecipeGeneration, err)
		}
		logger.Get().Warn("recipe pipeline stage failed",
			zap.String("stage", st.name),
			zap.String("recipe_name", run.recipe.RecipeName),
			zap.Error(err),
		)
	}
	return run.recipe, nil
}

func (s *RecipeService) generateRecipe(ctx context.Context, run *pipelineRun) error {
	prompt, err := BuildRecipePrompt(s.Cfg.Prompts, run.ingredients, run.prefs)
	if err != nil {
		return err
	}

	raw, err := s.TextProvider.GenerateJSON(ctx, prompt, ai.RecipeSchema)
	if err != nil {
		return err
	}

	var recipe models.Recipe
	if err := ai.Decode(raw, &recipe); err != nil {
		return err
	}
	recipe.ID = s.NewID()
	recipe.Rating = 0
	recipe.ImageURL = ""
	recipe.Substitutions = nil
	run.recipe = &recipe
	return nil
}

type substitutionResult struct {
	Substitutions []models.IngredientSubstitution `json:"substitutions" validate:"dive"`
}

func (s *RecipeService) suggestSubstitutions(ctx context.Context, run *pipelineRun) error {
	names := run.recipe.IngredientNames()
	if len(names) == 0 {
		return nil
	}

	prompt, err := BuildSubstitutionPrompt(s.Cfg.Prompts, names)
	if err != nil {
		return err
	}

	raw, err := s.TextProvider.GenerateJSON(ctx, prompt, ai.SubstitutionSchema)
	if err != nil {
		return err
	}

	var result substitutionResult
	if err := ai.Decode(raw, &result); err != nil {
		return err
	}
	if len(result.Substitutions) > 0 {
		run.recipe.Substitutions = result.Substitutions
	}
	return nil
}

func (s *RecipeService) illustrate(ctx context.Context, run *pipelineRun) error {
	if s.ImageProvider == nil {
		return nil
	}

	prompt, err := BuildImagePrompt(s.Cfg.Prompts, run.recipe)
	if err != nil {
		return err
	}

	img, err := s.ImageProvider.GenerateImage(ctx, prompt, s.Cfg.EnvVars.ImageAspectRatio)
	if err != nil {
		return err
	}
	if len(img) == 0 {
		return errors.New("image provider returned no data")
	}

	run.recipe.ImageURL = DataURI(img)
	return nil
}

// DataURI encodes image bytes as a base64 data URI.
func DataURI(img []byte) string {
	return "data:" + ai.DetectImageMediaType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}
