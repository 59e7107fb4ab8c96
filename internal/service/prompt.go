package service

import (
	"strings"

	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/models"
	"github.com/windoze95/ingredai-api/internal/util"
)

// FormatIngredients renders ingredients as "qty unit name" entries joined
// by ", ". Empty parts collapse away.
func FormatIngredients(ingredients []models.UserIngredient) string {
	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		parts = append(parts, util.SqueezeSpaces(ing.Quantity+" "+ing.Unit+" "+ing.Name))
	}
	return strings.Join(parts, ", ")
}

// BuildRecipePrompt assembles the recipe prompt. A dietary clause either
// appends to the base prompt or replaces it; the skill clause and the
// output-format clause are always appended last, in that order.
func BuildRecipePrompt(prompts *config.Prompts, ingredients []models.UserIngredient, prefs models.Preferences) (string, error) {
	data := map[string]interface{}{"Ingredients": FormatIngredients(ingredients)}
	rp := prompts.Recipe

	base := rp.Base
	var clauses []string
	if diet, ok := rp.Dietary[prefs.DietaryPreference]; ok {
		if diet.Replace != "" {
			base = diet.Replace
		}
		if diet.Append != "" {
			clauses = append(clauses, diet.Append)
		}
	}
	if skill, ok := rp.Skill[prefs.SkillLevel]; ok && skill != "" {
		clauses = append(clauses, skill)
	}
	clauses = append(clauses, rp.OutputFormat)

	sections := make([]string, 0, len(clauses)+1)
	for _, tmpl := range append([]string{base}, clauses...) {
		rendered, err := config.RenderPrompt(tmpl, data)
		if err != nil {
			return "", err
		}
		sections = append(sections, rendered)
	}
	return strings.Join(sections, " "), nil
}

// BuildSubstitutionPrompt asks for substitutions for the named ingredients.
func BuildSubstitutionPrompt(prompts *config.Prompts, names []string) (string, error) {
	return config.RenderPrompt(prompts.Substitutions, map[string]interface{}{
		"Ingredients": strings.Join(names, ", "),
	})
}

// BuildImagePrompt describes the finished dish for the illustration stage.
func BuildImagePrompt(prompts *config.Prompts, recipe *models.Recipe) (string, error) {
	return config.RenderPrompt(prompts.Image, map[string]interface{}{
		"Name":        recipe.RecipeName,
		"Description": recipe.Description,
	})
}
