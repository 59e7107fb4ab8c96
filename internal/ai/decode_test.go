package ai

import (
	"errors"
	"testing"

	"github.com/windoze95/ingredai-api/internal/models"
)

const validRecipeJSON = `{
	"recipeName": "Garlic Chicken",
	"description": "Juicy and quick.",
	"prepTime": "10 minutes",
	"cookTime": "20 minutes",
	"nutrition": {"calories": "350 kcal", "protein": "30g", "carbs": "5g", "fat": "20g"},
	"ingredients": [{"name": "Chicken Breast", "amount": "1 lb"}],
	"instructions": ["Season.", "Cook."]
}`

func TestDecode_ValidRecipe(t *testing.T) {
	var r models.Recipe
	if err := Decode(validRecipeJSON, &r); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if r.RecipeName != "Garlic Chicken" || r.Nutrition == nil || r.Nutrition.Fat != "20g" {
		t.Errorf("decoded recipe = %+v", r)
	}
}

func TestDecode_CodeFence(t *testing.T) {
	var r models.Recipe
	if err := Decode("```json\n"+validRecipeJSON+"\n```", &r); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
}

func TestDecode_EmptyIngredientList(t *testing.T) {
	// The recipe schema requires the list but sets no minimum length.
	raw := `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"ingredients":[],"instructions":["a"]}`
	var r models.Recipe
	if err := Decode(raw, &r); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if r.Ingredients == nil || len(r.Ingredients) != 0 {
		t.Errorf("Ingredients = %#v, want an empty list", r.Ingredients)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"not json", "Here is your recipe!"},
		{"missing name", `{"description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"ingredients":[{"name":"x","amount":"1"}],"instructions":["a"]}`},
		{"missing nutrition", `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","ingredients":[{"name":"x","amount":"1"}],"instructions":["a"]}`},
		{"empty instructions", `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"ingredients":[{"name":"x","amount":"1"}],"instructions":[]}`},
		{"amountless ingredient", `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"ingredients":[{"name":"x"}],"instructions":["a"]}`},
		{"missing ingredients", `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"instructions":["a"]}`},
		{"nameless ingredient", `{"recipeName":"n","description":"d","prepTime":"1","cookTime":"1","nutrition":{"calories":"1","protein":"1","carbs":"1","fat":"1"},"ingredients":[{"amount":"1"}],"instructions":["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r models.Recipe
			err := Decode(tt.raw, &r)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("Decode error = %v, want *ParseError", err)
			}
		})
	}
}
