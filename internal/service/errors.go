package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNoIngredients is returned when a recipe is requested for an empty
	// ingredient list.
	ErrNoIngredients = errors.New("add at least one ingredient")

	// ErrRecipeGeneration wraps any failure of the recipe stage.
	ErrRecipeGeneration = errors.New("recipe generation failed")

	// ErrGenerationInProgress is returned when a workspace already has a
	// recipe request in flight.
	ErrGenerationInProgress = errors.New("recipe generation already in progress")

	// ErrNoRecipe is returned by operations on the current recipe when none
	// is shown.
	ErrNoRecipe = errors.New("no recipe selected")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrImageAnalysis wraps any failure to identify ingredients in a photo.
	ErrImageAnalysis = errors.New("image analysis failed")

	// ErrConfirmationMismatch is returned when account deletion is not
	// confirmed with the expected text.
	ErrConfirmationMismatch = errors.New("confirmation text does not match")
)

// ValidationError collects per-field input errors.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// orNil returns e when any field failed, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}
