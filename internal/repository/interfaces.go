package repository

import (
	"context"

	"github.com/windoze95/ingredai-api/internal/models"
)

// WorkspaceRepo is the interface for the persisted state of one workspace.
type WorkspaceRepo interface {
	GetProfile(ctx context.Context, workspace string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, workspace string, profile *models.UserProfile) error
	GetRecipes(ctx context.Context, workspace string, slot Slot) ([]models.Recipe, error)
	SaveRecipes(ctx context.Context, workspace string, slot Slot, recipes []models.Recipe) error
	GetTheme(ctx context.Context, workspace string) (models.Theme, error)
	SaveTheme(ctx context.Context, workspace string, theme models.Theme) error
	GetTwoFactor(ctx context.Context, workspace string) (bool, error)
	SaveTwoFactor(ctx context.Context, workspace string, enabled bool) error
	Remove(ctx context.Context, workspace string, slots ...Slot) error
}
