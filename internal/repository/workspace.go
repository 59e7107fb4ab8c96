package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/windoze95/ingredai-api/internal/kv"
	"github.com/windoze95/ingredai-api/internal/metrics"
	"github.com/windoze95/ingredai-api/internal/models"
)

// Slot names one persisted value of a workspace.
type Slot string

// Persisted slots.
const (
	SlotProfile   Slot = "ingredai-user-profile"
	SlotSaved     Slot = "gemini-recipes"
	SlotFavorites Slot = "gemini-favorites"
	SlotTheme     Slot = "ingredai-theme"
	SlotTwoFactor Slot = "ingredai-2fa-enabled"
)

// WorkspaceRepository is a repository for workspace state kept in a kv.Store.
type WorkspaceRepository struct {
	Store kv.Store
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(store kv.Store) *WorkspaceRepository {
	return &WorkspaceRepository{Store: store}
}

// Key returns the store key of slot within workspace.
func Key(workspace string, slot Slot) string {
	return workspace + ":" + string(slot)
}

func (r *WorkspaceRepository) get(ctx context.Context, workspace string, slot Slot) (string, bool, error) {
	v, ok, err := r.Store.Get(ctx, Key(workspace, slot))
	if err != nil {
		metrics.KVErrors.WithLabelValues("get").Inc()
	}
	return v, ok, err
}

func (r *WorkspaceRepository) set(ctx context.Context, workspace string, slot Slot, value string) error {
	err := r.Store.Set(ctx, Key(workspace, slot), value)
	if err != nil {
		metrics.KVErrors.WithLabelValues("set").Inc()
	}
	return err
}

func (r *WorkspaceRepository) setJSON(ctx context.Context, workspace string, slot Slot, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", slot, err)
	}
	return r.set(ctx, workspace, slot, string(data))
}

// GetProfile returns the stored profile, or a NotFoundError when the
// workspace has none.
func (r *WorkspaceRepository) GetProfile(ctx context.Context, workspace string) (*models.UserProfile, error) {
	raw, ok, err := r.get(ctx, workspace, SlotProfile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFoundError{message: "Profile not found"}
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile replaces the stored profile.
func (r *WorkspaceRepository) SaveProfile(ctx context.Context, workspace string, profile *models.UserProfile) error {
	return r.setJSON(ctx, workspace, SlotProfile, profile)
}

// GetRecipes returns the recipe list stored in slot. An absent slot is an
// empty list.
func (r *WorkspaceRepository) GetRecipes(ctx context.Context, workspace string, slot Slot) ([]models.Recipe, error) {
	raw, ok, err := r.get(ctx, workspace, slot)
	if err != nil || !ok {
		return []models.Recipe{}, err
	}

	var recipes []models.Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		return []models.Recipe{}, fmt.Errorf("failed to decode %s: %w", slot, err)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

// SaveRecipes replaces the recipe list stored in slot.
func (r *WorkspaceRepository) SaveRecipes(ctx context.Context, workspace string, slot Slot, recipes []models.Recipe) error {
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return r.setJSON(ctx, workspace, slot, recipes)
}

// GetTheme returns the stored theme, light when unset or unrecognised.
func (r *WorkspaceRepository) GetTheme(ctx context.Context, workspace string) (models.Theme, error) {
	raw, ok, err := r.get(ctx, workspace, SlotTheme)
	if err != nil || !ok {
		return models.ThemeLight, err
	}
	theme := models.Theme(raw)
	if !theme.IsValid() {
		return models.ThemeLight, nil
	}
	return theme, nil
}

// SaveTheme stores the theme as its plain name.
func (r *WorkspaceRepository) SaveTheme(ctx context.Context, workspace string, theme models.Theme) error {
	return r.set(ctx, workspace, SlotTheme, string(theme))
}

// GetTwoFactor returns the stored two-factor flag, false when unset.
func (r *WorkspaceRepository) GetTwoFactor(ctx context.Context, workspace string) (bool, error) {
	raw, ok, err := r.get(ctx, workspace, SlotTwoFactor)
	if err != nil || !ok {
		return false, err
	}
	enabled, _ := strconv.ParseBool(raw)
	return enabled, nil
}

// SaveTwoFactor stores the two-factor flag as "true" or "false".
func (r *WorkspaceRepository) SaveTwoFactor(ctx context.Context, workspace string, enabled bool) error {
	return r.set(ctx, workspace, SlotTwoFactor, strconv.FormatBool(enabled))
}

// Remove deletes slots. Every slot is attempted; the first error is returned.
func (r *WorkspaceRepository) Remove(ctx context.Context, workspace string, slots ...Slot) error {
	var firstErr error
	for _, slot := range slots {
		if err := r.Store.Remove(ctx, Key(workspace, slot)); err != nil {
			metrics.KVErrors.WithLabelValues("remove").Inc()
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
