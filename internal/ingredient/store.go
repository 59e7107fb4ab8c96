// Package ingredient holds the ordered list of ingredients a user has on hand.
package ingredient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/windoze95/ingredai-api/internal/models"
)

// ErrIndexOutOfRange is returned for an index that names no ingredient.
var ErrIndexOutOfRange = errors.New("ingredient index out of range")

// Store is an ordered ingredient list. Entries keep insertion order and are
// never merged, even when names match. A Store is not safe for concurrent
// use; callers serialize access.
type Store struct {
	items []models.UserIngredient
}

// NewStore returns a store seeded with a copy of initial.
func NewStore(initial []models.UserIngredient) *Store {
	s := &Store{}
	s.ReplaceAll(initial)
	return s
}

// List returns a copy of the current ingredients.
func (s *Store) List() []models.UserIngredient {
	return append([]models.UserIngredient{}, s.items...)
}

// Len returns the number of ingredients.
func (s *Store) Len() int {
	return len(s.items)
}

// Add appends one ingredient.
func (s *Store) Add(ing models.UserIngredient) {
	s.items = append(s.items, ing)
}

// AddMany appends an entry per name. With dedupe set, names already present
// in the store (case-insensitive) are skipped. It returns the ingredients
// that were added.
func (s *Store) AddMany(names []string, dedupe bool) []models.UserIngredient {
	existing := make(map[string]bool, len(s.items))
	if dedupe {
		for _, ing := range s.items {
			existing[strings.ToLower(ing.Name)] = true
		}
	}

	var added []models.UserIngredient
	for _, name := range names {
		if dedupe && existing[strings.ToLower(name)] {
			continue
		}
		ing := models.UserIngredient{Name: name}
		s.items = append(s.items, ing)
		added = append(added, ing)
	}
	return added
}

// Remove deletes the ingredient at index.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.items))
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Update replaces the ingredient at index.
func (s *Store) Update(index int, ing models.UserIngredient) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.items))
	}
	s.items[index] = ing
	return nil
}

// RemoveByNames deletes every ingredient whose name matches one of names,
// ignoring case. It returns the number of entries removed.
func (s *Store) RemoveByNames(names []string) int {
	targets := make(map[string]bool, len(names))
	for _, n := range names {
		targets[strings.ToLower(n)] = true
	}

	kept := s.items[:0]
	removed := 0
	for _, ing := range s.items {
		if targets[strings.ToLower(ing.Name)] {
			removed++
			continue
		}
		kept = append(kept, ing)
	}
	s.items = kept
	return removed
}

// Clear empties the store.
func (s *Store) Clear() {
	s.items = nil
}

// ReplaceAll swaps the contents for a copy of list.
func (s *Store) ReplaceAll(list []models.UserIngredient) {
	s.items = append([]models.UserIngredient(nil), list...)
}
