package ai

import (
	"github.com/google/generative-ai-go/genai"
)

// SchemaType is a JSON schema type.
type SchemaType string

// Supported schema types.
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a provider-neutral description of the JSON a call must return.
// Each provider converts it to its own structured-output form.
type Schema struct {
	Name        string
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
}

func str(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc}
}

func strList(desc string) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: &Schema{Type: TypeString}}
}

// RecipeSchema describes a generated recipe.
var RecipeSchema = &Schema{
	Name: "create_recipe",
	Type: TypeObject,
	Properties: map[string]*Schema{
		"recipeName":  str("The creative name of the recipe."),
		"description": str("A short, enticing description of the dish."),
		"prepTime":    str("The estimated time required for preparation (e.g., '15 minutes')."),
		"cookTime":    str("The estimated time required for cooking (e.g., '30 minutes')."),
		"nutrition": {
			Type:        TypeObject,
			Description: "Estimated nutritional information per serving.",
			Properties: map[string]*Schema{
				"calories": str("Estimated calories (e.g., '350 kcal')."),
				"protein":  str("Estimated protein in grams (e.g., '20g')."),
				"carbs":    str("Estimated carbohydrates in grams (e.g., '30g')."),
				"fat":      str("Estimated fat in grams (e.g., '15g')."),
			},
			Required: []string{"calories", "protein", "carbs", "fat"},
		},
		"ingredients": {
			Type:        TypeArray,
			Description: "A list of all ingredients required for the recipe, including amounts.",
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"name":   str("The name of the ingredient."),
					"amount": str("The quantity of the ingredient (e.g., '1 cup', '2 tbsp')."),
				},
				Required: []string{"name", "amount"},
			},
		},
		"instructions":        strList("The step-by-step instructions for preparing the recipe."),
		"leftoverSuggestions": strList("1-2 creative ideas for using any potential leftovers from this recipe."),
	},
	Required: []string{"recipeName", "description", "prepTime", "cookTime", "nutrition", "ingredients", "instructions"},
}

// SubstitutionSchema describes substitute suggestions per ingredient.
var SubstitutionSchema = &Schema{
	Name: "suggest_substitutions",
	Type: TypeObject,
	Properties: map[string]*Schema{
		"substitutions": {
			Type:        TypeArray,
			Description: "A list of ingredient substitution suggestions.",
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"originalIngredient": str("The original ingredient name."),
					"suggestions":        strList("A list of suggested substitute ingredients."),
				},
				Required: []string{"originalIngredient", "suggestions"},
			},
		},
	},
	Required: []string{"substitutions"},
}

// IngredientListSchema describes ingredients identified in a photo.
var IngredientListSchema = &Schema{
	Name: "list_ingredients",
	Type: TypeObject,
	Properties: map[string]*Schema{
		"ingredients": strList("An array of food ingredients identified in the image."),
	},
	Required: []string{"ingredients"},
}

// toGenai converts s to the Gemini SDK schema.
func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.toGenai()
		}
	}
	out.Items = s.Items.toGenai()
	return out
}

// toJSONSchema converts s to a JSON schema map, as used by Claude tool input.
func (s *Schema) toJSONSchema() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v.toJSONSchema()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.toJSONSchema()
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
