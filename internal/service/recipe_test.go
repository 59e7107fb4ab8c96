package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/windoze95/ingredai-api/internal/ai"
	"github.com/windoze95/ingredai-api/internal/models"
	"github.com/windoze95/ingredai-api/internal/testutil"
)

// textBySchema answers recipe and substitution requests separately.
func textBySchema(recipe, subs string, subsErr error) *testutil.MockTextProvider {
	return &testutil.MockTextProvider{
		GenerateJSONFunc: func(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
			if schema == ai.SubstitutionSchema {
				return subs, subsErr
			}
			return recipe, nil
		},
	}
}

func pngImage() *testutil.MockImageProvider {
	return &testutil.MockImageProvider{
		GenerateImageFunc: func(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
			return testutil.TestPNG, nil
		},
	}
}

func newTestRecipeService(text ai.TextProvider, image ai.ImageProvider) *RecipeService {
	svc := NewRecipeService(testutil.TestConfig(), text, image)
	svc.NewID = func() string { return "recipe-1" }
	return svc
}

func assertStageOneFields(t *testing.T, r *models.Recipe) {
	t.Helper()
	if r.RecipeName != "Garlic Tomato Chicken" {
		t.Errorf("RecipeName = %q", r.RecipeName)
	}
	if r.PrepTime != "10 minutes" || r.CookTime != "25 minutes" {
		t.Errorf("times = %q / %q", r.PrepTime, r.CookTime)
	}
	if len(r.Ingredients) != 4 || len(r.Instructions) != 3 {
		t.Errorf("ingredients=%d instructions=%d", len(r.Ingredients), len(r.Instructions))
	}
	if r.Nutrition == nil || r.Nutrition.Calories != "420 kcal" {
		t.Errorf("Nutrition = %+v", r.Nutrition)
	}
	if len(r.LeftoverSuggestions) != 1 {
		t.Errorf("LeftoverSuggestions = %v", r.LeftoverSuggestions)
	}
}

func TestGenerateRecipe_AllStagesSucceed(t *testing.T) {
	text := textBySchema(testutil.TestRecipeJSON, testutil.TestSubstitutionsJSON, nil)
	var gotRatio, gotPrompt string
	image := &testutil.MockImageProvider{
		GenerateImageFunc: func(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
			gotPrompt, gotRatio = prompt, aspectRatio
			return testutil.TestPNG, nil
		},
	}
	svc := newTestRecipeService(text, image)

	r, err := svc.GenerateRecipe(context.Background(), testutil.TestIngredients(), models.Preferences{})
	if err != nil {
		t.Fatalf("GenerateRecipe error: %v", err)
	}
	assertStageOneFields(t, r)
	if r.ID != "recipe-1" {
		t.Errorf("ID = %q, want recipe-1", r.ID)
	}
	if len(r.Substitutions) != 2 || r.Substitutions[0].OriginalIngredient != "Chicken Breast" {
		t.Errorf("Substitutions = %+v", r.Substitutions)
	}
	if !strings.HasPrefix(r.ImageURL, "data:image/png;base64,") {
		t.Errorf("ImageURL = %q", r.ImageURL)
	}
	if gotRatio != "4:3" {
		t.Errorf("aspect ratio = %q, want 4:3", gotRatio)
	}
	if !strings.Contains(gotPrompt, `"Garlic Tomato Chicken"`) {
		t.Errorf("image prompt = %q", gotPrompt)
	}
	if text.Calls() != 2 {
		t.Errorf("text calls = %d, want 2", text.Calls())
	}
	if !strings.Contains(text.Prompts[1], "Chicken Breast, Tomatoes, Garlic, Onion") {
		t.Errorf("substitution prompt = %q", text.Prompts[1])
	}
}

func TestGenerateRecipe_SubstitutionFailureIsSwallowed(t *testing.T) {
	tests := []struct {
		name string
		subs string
		err  error
	}{
		{"provider error", "", errors.New("503 from provider")},
		{"malformed json", "{not json", nil},
		{"schema violation", `{"substitutions": [{"suggestions": ["x"]}]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestRecipeService(textBySchema(testutil.TestRecipeJSON, tt.subs, tt.err), pngImage())

			r, err := svc.GenerateRecipe(context.Background(), testutil.TestIngredients(), models.Preferences{})
			if err != nil {
				t.Fatalf("GenerateRecipe error: %v", err)
			}
			assertStageOneFields(t, r)
			if r.Substitutions != nil {
				t.Errorf("Substitutions = %+v, want nil", r.Substitutions)
			}
			if r.ImageURL == "" {
				t.Error("image stage should still run after a substitution failure")
			}
		})
	}
}

func TestGenerateRecipe_ImageFailureIsSwallowed(t *testing.T) {
	tests := []struct {
		name  string
		image ai.ImageProvider
	}{
		{"provider error", &testutil.MockImageProvider{}},
		{"empty image", &testutil.MockImageProvider{
			GenerateImageFunc: func(context.Context, string, string) ([]byte, error) { return nil, nil },
		}},
		{"no image provider", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestRecipeService(textBySchema(testutil.TestRecipeJSON, testutil.TestSubstitutionsJSON, nil), tt.image)

			r, err := svc.GenerateRecipe(context.Background(), testutil.TestIngredients(), models.Preferences{})
			if err != nil {
				t.Fatalf("GenerateRecipe error: %v", err)
			}
			assertStageOneFields(t, r)
			if r.ImageURL != "" {
				t.Errorf("ImageURL = %q, want empty", r.ImageURL)
			}
			if len(r.Substitutions) != 2 {
				t.Errorf("substitutions should survive an image failure, got %+v", r.Substitutions)
			}
		})
	}
}

func TestGenerateRecipe_RecipeFailureIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"malformed json", "this is not json", nil},
		{"empty response", "   ", nil},
		{"missing required field", `{"recipeName": "Toast"}`, nil},
		{"provider error", "", errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &testutil.MockTextProvider{
				GenerateJSONFunc: func(context.Context, string, *ai.Schema) (string, error) {
					return tt.response, tt.err
				},
			}
			imageCalled := false
			image := &testutil.MockImageProvider{
				GenerateImageFunc: func(context.Context, string, string) ([]byte, error) {
					imageCalled = true
					return testutil.TestPNG, nil
				},
			}
			svc := newTestRecipeService(text, image)

			r, err := svc.GenerateRecipe(context.Background(), testutil.TestIngredients(), models.Preferences{})
			if !errors.Is(err, ErrRecipeGeneration) {
				t.Fatalf("err = %v, want ErrRecipeGeneration", err)
			}
			if r != nil {
				t.Errorf("recipe = %+v, want nil", r)
			}
			if text.Calls() != 1 {
				t.Errorf("text calls = %d, want 1 (no substitution stage)", text.Calls())
			}
			if imageCalled {
				t.Error("image stage must not run after a recipe failure")
			}
		})
	}
}

func TestGenerateRecipe_NoIngredients(t *testing.T) {
	text := &testutil.MockTextProvider{}
	svc := newTestRecipeService(text, pngImage())

	_, err := svc.GenerateRecipe(context.Background(), nil, models.Preferences{})
	if !errors.Is(err, ErrNoIngredients) {
		t.Fatalf("err = %v, want ErrNoIngredients", err)
	}
	if text.Calls() != 0 {
		t.Error("no provider call expected for an empty ingredient list")
	}
}

func TestGenerateRecipe_VeganPromptReachesProvider(t *testing.T) {
	text := textBySchema(testutil.TestRecipeJSON, testutil.TestSubstitutionsJSON, nil)
	svc := newTestRecipeService(text, nil)

	_, err := svc.GenerateRecipe(context.Background(),
		[]models.UserIngredient{{Name: "Egg", Quantity: "2", Unit: ""}},
		models.Preferences{SkillLevel: "Any", DietaryPreference: "Vegan"})
	if err != nil {
		t.Fatalf("GenerateRecipe error: %v", err)
	}
	first := text.Prompts[0]
	if !strings.Contains(first, "2 Egg") {
		t.Errorf("prompt should list the egg: %q", first)
	}
	if !strings.Contains(first, "substitute them with a common plant-based alternative") ||
		!strings.Contains(first, "document the substitution") {
		t.Errorf("prompt missing vegan substitution instruction: %q", first)
	}
	if text.Schemas[0] != ai.RecipeSchema.Name {
		t.Errorf("first schema = %q, want %q", text.Schemas[0], ai.RecipeSchema.Name)
	}
}

func TestGenerateRecipe_IgnoresModelSuppliedExtras(t *testing.T) {
	withExtras := strings.Replace(testutil.TestRecipeJSON, `"recipeName"`, `"rating": 5, "imageUrl": "http://x", "recipeName"`, 1)
	svc := newTestRecipeService(textBySchema(withExtras, `{"substitutions": []}`, nil), nil)

	r, err := svc.GenerateRecipe(context.Background(), testutil.TestIngredients(), models.Preferences{})
	if err != nil {
		t.Fatalf("GenerateRecipe error: %v", err)
	}
	if r.Rating != 0 || r.ImageURL != "" {
		t.Errorf("rating=%d imageUrl=%q, want zero values", r.Rating, r.ImageURL)
	}
	if r.Substitutions != nil {
		t.Errorf("empty substitution list should leave the field unset, got %+v", r.Substitutions)
	}
}

func TestDataURI(t *testing.T) {
	if got := DataURI([]byte{0xFF, 0xD8, 0xFF, 0xE0}); got != "data:image/jpeg;base64,/9j/4A==" {
		t.Errorf("DataURI = %q", got)
	}
}
