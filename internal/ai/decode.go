package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseError reports a model response that is not valid JSON for the
// requested schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed AI response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode parses a JSON response into v and checks its `validate` tags.
// Markdown code fences around the JSON are tolerated.
func Decode(raw string, v interface{}) error {
	raw = stripCodeFence(raw)
	if raw == "" {
		return &ParseError{Err: errors.New("empty response")}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ParseError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := validate.Struct(v); err != nil {
		return &ParseError{Err: fmt.Errorf("schema validation: %w", err)}
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
