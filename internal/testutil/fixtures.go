package testutil

import (
	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/models"
)

// TestRecipeJSON is a complete recipe response as a text provider returns it.
const TestRecipeJSON = `{
  "recipeName": "Garlic Tomato Chicken",
  "description": "Juicy chicken simmered in a garlicky tomato sauce.",
  "prepTime": "10 minutes",
  "cookTime": "25 minutes",
  "nutrition": {"calories": "420 kcal", "protein": "38 g", "carbs": "12 g", "fat": "22 g"},
  "ingredients": [
    {"name": "Chicken Breast", "amount": "1 lb"},
    {"name": "Tomatoes", "amount": "2"},
    {"name": "Garlic", "amount": "3 cloves"},
    {"name": "Onion", "amount": "1"}
  ],
  "instructions": ["Sear the chicken.", "Add onion and garlic.", "Simmer with tomatoes."],
  "leftoverSuggestions": ["Shred into wraps."]
}`

// TestSubstitutionsJSON is a substitution response for TestRecipeJSON.
const TestSubstitutionsJSON = `{"substitutions": [
  {"originalIngredient": "Chicken Breast", "suggestions": ["Turkey breast", "Firm tofu"]},
  {"originalIngredient": "Onion", "suggestions": ["Shallots"]}
]}`

// TestPNG is the smallest byte sequence detected as a PNG image.
var TestPNG = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// TestConfig returns a configuration with the built-in prompts.
func TestConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			ImageAspectRatio: "4:3",
			WorkspaceHeader:  "X-IngredAI-Workspace",
			GenerateRPS:      100,
		},
		Prompts: config.DefaultPrompts(),
	}
}

// TestRecipe creates a recipe with every field populated.
func TestRecipe() *models.Recipe {
	return &models.Recipe{
		ID:          "11111111-1111-1111-1111-111111111111",
		RecipeName:  "Garlic Tomato Chicken",
		Description: "Juicy chicken simmered in a garlicky tomato sauce.",
		PrepTime:    "10 minutes",
		CookTime:    "25 minutes",
		Ingredients: []models.RecipeIngredient{
			{Name: "Chicken Breast", Amount: "1 lb"},
			{Name: "Tomatoes", Amount: "2"},
			{Name: "Garlic", Amount: "3 cloves"},
		},
		Instructions: []string{"Sear the chicken.", "Simmer with tomatoes."},
		Nutrition:    &models.NutritionInfo{Calories: "420 kcal", Protein: "38 g", Carbs: "12 g", Fat: "22 g"},
	}
}

// TestIngredients returns a small pantry.
func TestIngredients() []models.UserIngredient {
	return []models.UserIngredient{
		{Name: "Tomatoes", Quantity: "2"},
		{Name: "Garlic", Quantity: "3", Unit: "cloves"},
		{Name: "Basil"},
	}
}
