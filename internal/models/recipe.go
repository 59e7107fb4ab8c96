package models

import "strings"

// RecipeIngredient is a single ingredient line in a generated recipe.
type RecipeIngredient struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

// NutritionInfo is the estimated nutrition per serving. All values are
// free-form strings as returned by the model (e.g. "350 kcal", "20g").
type NutritionInfo struct {
	Calories string `json:"calories" validate:"required"`
	Protein  string `json:"protein" validate:"required"`
	Carbs    string `json:"carbs" validate:"required"`
	Fat      string `json:"fat" validate:"required"`
}

// IngredientSubstitution lists substitute suggestions for one ingredient.
type IngredientSubstitution struct {
	OriginalIngredient string   `json:"originalIngredient" validate:"required"`
	Suggestions        []string `json:"suggestions"`
}

// Recipe is the aggregated result of a generation request. The JSON layout
// matches the stored collections so older blobs decode unchanged.
type Recipe struct {
	ID                  string                   `json:"id,omitempty"`
	RecipeName          string                   `json:"recipeName" validate:"required"`
	Description         string                   `json:"description" validate:"required"`
	PrepTime            string                   `json:"prepTime" validate:"required"`
	CookTime            string                   `json:"cookTime" validate:"required"`
	Ingredients         []RecipeIngredient       `json:"ingredients" validate:"required,dive"`
	Instructions        []string                 `json:"instructions" validate:"required,min=1"`
	ImageURL            string                   `json:"imageUrl,omitempty"`
	Rating              int                      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Substitutions       []IngredientSubstitution `json:"substitutions,omitempty"`
	Nutrition           *NutritionInfo           `json:"nutrition,omitempty" validate:"required"`
	LeftoverSuggestions []string                 `json:"leftoverSuggestions,omitempty"`
}

// SameAs reports whether r and other refer to the same recipe. Recipes that
// both carry an ID compare by ID; otherwise the recipe name is the key.
func (r *Recipe) SameAs(other *Recipe) bool {
	if r == nil || other == nil {
		return false
	}
	if r.ID != "" && other.ID != "" {
		return r.ID == other.ID
	}
	return r.RecipeName == other.RecipeName
}

// MatchesKey reports whether key is this recipe's ID or, failing that, its
// name (case-insensitive).
func (r *Recipe) MatchesKey(key string) bool {
	if r.ID != "" && r.ID == key {
		return true
	}
	return strings.EqualFold(r.RecipeName, key)
}

// IngredientNames returns the distinct ingredient names in first-seen order.
func (r *Recipe) IngredientNames() []string {
	seen := make(map[string]bool, len(r.Ingredients))
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Clone returns a deep copy of the recipe.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	c.LeftoverSuggestions = append([]string(nil), r.LeftoverSuggestions...)
	if r.Substitutions != nil {
		c.Substitutions = make([]IngredientSubstitution, len(r.Substitutions))
		for i, s := range r.Substitutions {
			c.Substitutions[i] = IngredientSubstitution{
				OriginalIngredient: s.OriginalIngredient,
				Suggestions:        append([]string(nil), s.Suggestions...),
			}
		}
	}
	if r.Nutrition != nil {
		n := *r.Nutrition
		c.Nutrition = &n
	}
	return &c
}
