package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// DietaryClause adjusts the recipe prompt for one dietary preference.
// Append is added after the base prompt; Replace swaps the base prompt out
// entirely.
type DietaryClause struct {
	Append  string `yaml:"append"`
	Replace string `yaml:"replace"`
}

// RecipePrompts holds the pieces the recipe prompt is assembled from.
type RecipePrompts struct {
	Base         string                   `yaml:"base"`
	Dietary      map[string]DietaryClause `yaml:"dietary"`
	Skill        map[string]string        `yaml:"skill"`
	OutputFormat string                   `yaml:"output_format"`
}

// Prompts is the top-level prompt configuration loaded from YAML.
type Prompts struct {
	Recipe        RecipePrompts `yaml:"recipe"`
	Substitutions string        `yaml:"substitutions"`
	Image         string        `yaml:"image"`
	ImageAnalysis string        `yaml:"image_analysis"`
}

// LoadPrompts reads and parses a YAML prompt configuration file. An empty
// path loads the built-in prompts.
func LoadPrompts(path string) (*Prompts, error) {
	if path == "" {
		return ParsePrompts(defaultPrompts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return ParsePrompts(data)
}

// DefaultPrompts returns the built-in prompts. It panics if the embedded
// file is malformed, which only a broken build can cause.
func DefaultPrompts() *Prompts {
	p, err := ParsePrompts(defaultPrompts)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePrompts parses YAML prompt configuration.
func ParsePrompts(data []byte) (*Prompts, error) {
	var prompts Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts YAML: %w", err)
	}
	if prompts.Recipe.Base == "" || prompts.Recipe.OutputFormat == "" {
		return nil, fmt.Errorf("prompts YAML is missing recipe.base or recipe.output_format")
	}
	return &prompts, nil
}

// RenderPrompt executes Go template interpolation on a prompt string.
// The data map provides values for placeholders like {{.Ingredients}}.
func RenderPrompt(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
