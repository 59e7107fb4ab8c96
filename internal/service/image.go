package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/windoze95/ingredai-api/internal/ai"
	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/util"
)

// ImageService identifies ingredients in photos.
type ImageService struct {
	Cfg    *config.Config
	Vision ai.VisionProvider
}

// NewImageService is the constructor function for initializing a new ImageService.
func NewImageService(cfg *config.Config, vision ai.VisionProvider) *ImageService {
	return &ImageService{Cfg: cfg, Vision: vision}
}

type ingredientList struct {
	Ingredients []string `json:"ingredients"`
}

// AnalyzeImage returns the capitalised names of the ingredients visible in
// the image, in the order the model listed them. An empty mimeType is
// detected from the image bytes.
func (s *ImageService) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) ([]string, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrImageAnalysis)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = ai.DetectImageMediaType(imageData)
	}

	raw, err := s.Vision.GenerateJSONFromImage(ctx, imageData, mimeType, s.Cfg.Prompts.ImageAnalysis, ai.IngredientListSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageAnalysis, err)
	}

	var list ingredientList
	if err := ai.Decode(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageAnalysis, err)
	}

	names := make([]string, 0, len(list.Ingredients))
	for _, name := range list.Ingredients {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, util.Capitalize(name))
	}
	return names, nil
}
