package ai

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestRecipeSchema_ToGenai(t *testing.T) {
	g := RecipeSchema.toGenai()
	if g.Type != genai.TypeObject {
		t.Fatalf("type = %v, want object", g.Type)
	}
	if len(g.Required) != 7 {
		t.Errorf("required = %v, want 7 fields", g.Required)
	}
	ing := g.Properties["ingredients"]
	if ing == nil || ing.Type != genai.TypeArray || ing.Items == nil || ing.Items.Type != genai.TypeObject {
		t.Fatalf("ingredients schema = %+v", ing)
	}
	if ing.Items.Properties["amount"].Type != genai.TypeString {
		t.Error("ingredient amount should be a string")
	}
	if g.Properties["nutrition"].Properties["fat"] == nil {
		t.Error("nutrition.fat missing")
	}
}

func TestSchema_ToJSONSchema(t *testing.T) {
	js := SubstitutionSchema.toJSONSchema()
	if js["type"] != "object" {
		t.Errorf("type = %v", js["type"])
	}
	props, ok := js["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("properties missing")
	}
	subs := props["substitutions"].(map[string]interface{})
	if subs["type"] != "array" {
		t.Errorf("substitutions.type = %v", subs["type"])
	}
	items := subs["items"].(map[string]interface{})
	req := items["required"].([]string)
	if len(req) != 2 || req[0] != "originalIngredient" {
		t.Errorf("items.required = %v", req)
	}
}

func TestSchemaTool_UsesSchemaName(t *testing.T) {
	tool := schemaTool(IngredientListSchema)
	if tool.OfTool == nil || tool.OfTool.Name != "list_ingredients" {
		t.Fatalf("tool = %+v", tool.OfTool)
	}
	if tool.OfTool.InputSchema.Properties == nil {
		t.Error("tool input schema has no properties")
	}
}
