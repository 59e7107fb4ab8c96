// Package voice turns spoken transcripts into application commands.
package voice

import (
	"fmt"

	"github.com/windoze95/ingredai-api/internal/models"
)

// CommandType identifies a voice command.
type CommandType int

// Command types, in no particular order.
const (
	CmdUnrecognized CommandType = iota
	CmdAddIngredients
	CmdRemoveIngredients
	CmdClearIngredients
	CmdGenerateRecipe
	CmdSetTheme
	CmdSaveCurrentRecipe
	CmdLogout
)

var commandNames = map[CommandType]string{
	CmdUnrecognized:      "unrecognized",
	CmdAddIngredients:    "add_ingredients",
	CmdRemoveIngredients: "remove_ingredients",
	CmdClearIngredients:  "clear_ingredients",
	CmdGenerateRecipe:    "generate_recipe",
	CmdSetTheme:          "set_theme",
	CmdSaveCurrentRecipe: "save_current_recipe",
	CmdLogout:            "logout",
}

func (t CommandType) String() string {
	if name, ok := commandNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets CommandType appear as a string in JSON.
func (t CommandType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (t *CommandType) UnmarshalText(text []byte) error {
	for ct, name := range commandNames {
		if name == string(text) {
			*t = ct
			return nil
		}
	}
	return fmt.Errorf("unknown command type %q", text)
}

// Command is an interpreted voice instruction. Names is set for the add and
// remove commands, Theme for CmdSetTheme, Raw for CmdUnrecognized.
type Command struct {
	Type  CommandType  `json:"type"`
	Names []string     `json:"names,omitempty"`
	Theme models.Theme `json:"theme,omitempty"`
	Raw   string       `json:"raw,omitempty"`
}

// FeedbackType is the severity of a feedback message.
type FeedbackType string

// Feedback severities.
const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackInfo    FeedbackType = "info"
	FeedbackError   FeedbackType = "error"
)

// Feedback is a short user-facing message.
type Feedback struct {
	Message string       `json:"message"`
	Type    FeedbackType `json:"type"`
}

// Context is the application state the interpreter needs.
type Context struct {
	HasRecipe          bool
	RecipeName         string
	RecipeAlreadySaved bool
	Theme              models.Theme
}

// Result is the outcome of interpreting one transcript. Command is nil for
// feedback-only outcomes.
type Result struct {
	Command  *Command `json:"command,omitempty"`
	Feedback Feedback `json:"feedback"`
}
