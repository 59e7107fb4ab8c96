package service

import (
	"strings"
	"testing"

	"github.com/windoze95/ingredai-api/internal/config"
	"github.com/windoze95/ingredai-api/internal/models"
)

func TestFormatIngredients(t *testing.T) {
	tests := []struct {
		name string
		in   []models.UserIngredient
		want string
	}{
		{"empty", nil, ""},
		{"full entry", []models.UserIngredient{{Name: "Garlic", Quantity: "3", Unit: "cloves"}}, "3 cloves Garlic"},
		{"missing unit collapses", []models.UserIngredient{{Name: "Egg", Quantity: "2"}}, "2 Egg"},
		{"name only", []models.UserIngredient{{Name: "Basil"}}, "Basil"},
		{"squeezes spaces", []models.UserIngredient{{Name: "  Red   Onion ", Quantity: " 1 "}}, "1 Red Onion"},
		{
			"joined with comma",
			[]models.UserIngredient{{Name: "Egg", Quantity: "2"}, {Name: "Milk", Quantity: "1", Unit: "cup"}},
			"2 Egg, 1 cup Milk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatIngredients(tt.in); got != tt.want {
				t.Errorf("FormatIngredients = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRecipePrompt(t *testing.T) {
	prompts := config.DefaultPrompts()
	eggs := []models.UserIngredient{{Name: "Egg", Quantity: "2"}}
	const preamble = "zero-waste"

	tests := []struct {
		name        string
		prefs       models.Preferences
		contains    []string
		notContains []string
	}{
		{
			name:        "default preferences",
			prefs:       models.Preferences{SkillLevel: "Any", DietaryPreference: "None"},
			contains:    []string{preamble, "The available ingredients are: 2 Egg.", "Structure your response strictly"},
			notContains: []string{"Vegan", "beginner cook"},
		},
		{
			name:     "vegan appends substitution note",
			prefs:    models.Preferences{SkillLevel: "Any", DietaryPreference: "Vegan"},
			contains: []string{preamble, "strictly adhere to a Vegan diet", "must substitute them", "document the substitution in the final instruction step"},
		},
		{
			name:     "vegetarian",
			prefs:    models.Preferences{DietaryPreference: "Vegetarian"},
			contains: []string{preamble, "no meat, poultry, or fish"},
		},
		{
			name:     "keto",
			prefs:    models.Preferences{DietaryPreference: "Keto"},
			contains: []string{preamble, "strictly ketogenic"},
		},
		{
			name:        "gluten and peanut free replaces the base prompt",
			prefs:       models.Preferences{DietaryPreference: "Gluten-Free & Peanut-Free"},
			contains:    []string{"food safety expert", "following ingredients: 2 Egg.", "If a provided ingredient is unsafe, do not use it."},
			notContains: []string{preamble},
		},
		{
			name:     "beginner caps steps",
			prefs:    models.Preferences{SkillLevel: "Beginner", DietaryPreference: "None"},
			contains: []string{"maximum of 5 simple"},
		},
		{
			name:        "unknown diet adds nothing",
			prefs:       models.Preferences{DietaryPreference: "Paleo"},
			contains:    []string{preamble},
			notContains: []string{"must strictly adhere"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := BuildRecipePrompt(prompts, eggs, tt.prefs)
			if err != nil {
				t.Fatalf("BuildRecipePrompt error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("prompt missing %q:\n%s", s, prompt)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(prompt, s) {
					t.Errorf("prompt should not contain %q:\n%s", s, prompt)
				}
			}
		})
	}
}

func TestBuildRecipePrompt_ClauseOrder(t *testing.T) {
	prompt, err := BuildRecipePrompt(config.DefaultPrompts(),
		[]models.UserIngredient{{Name: "Tofu"}},
		models.Preferences{SkillLevel: "Beginner", DietaryPreference: "Keto"})
	if err != nil {
		t.Fatalf("BuildRecipePrompt error: %v", err)
	}

	keto := strings.Index(prompt, "ketogenic")
	skill := strings.Index(prompt, "beginner cook")
	format := strings.Index(prompt, "Provide a unique name")
	if !(keto < skill && skill < format) {
		t.Errorf("clauses out of order: keto=%d skill=%d format=%d", keto, skill, format)
	}
	if !strings.HasSuffix(prompt, "Structure your response strictly in the defined JSON format.") {
		t.Errorf("prompt should end with the output format clause:\n%s", prompt)
	}
}

func TestBuildSubstitutionPrompt(t *testing.T) {
	prompt, err := BuildSubstitutionPrompt(config.DefaultPrompts(), []string{"Chicken", "Onion"})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(prompt, "The ingredients are: Chicken, Onion.") {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestBuildImagePrompt(t *testing.T) {
	prompt, err := BuildImagePrompt(config.DefaultPrompts(), &models.Recipe{RecipeName: "Pad Thai", Description: "Tangy noodles."})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	want := `A delicious, mouth-watering, professional food photograph of "Pad Thai". Tangy noodles.`
	if prompt != want {
		t.Errorf("prompt = %q, want %q", prompt, want)
	}
}
