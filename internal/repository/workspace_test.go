package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/windoze95/ingredai-api/internal/kv"
	"github.com/windoze95/ingredai-api/internal/models"
)

// failingStore is a kv.Store whose every operation fails.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store down")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("store down") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("store down") }

func TestKey(t *testing.T) {
	if got := Key("ws1", SlotSaved); got != "ws1:gemini-recipes" {
		t.Errorf("Key = %q", got)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	repo := NewWorkspaceRepository(kv.NewMemory())
	_, err := repo.GetProfile(context.Background(), "ws")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestProfile_RoundTripUsesCamelCase(t *testing.T) {
	store := kv.NewMemory()
	repo := NewWorkspaceRepository(store)
	ctx := context.Background()

	in := &models.UserProfile{Username: "chef_anna", Age: 30, SkillLevel: "Beginner", DietaryPreference: "Vegan"}
	if err := repo.SaveProfile(ctx, "ws", in); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	raw, _, _ := store.Get(ctx, "ws:ingredai-user-profile")
	want := `{"username":"chef_anna","age":30,"dietaryPreference":"Vegan","skillLevel":"Beginner"}`
	if raw != want {
		t.Errorf("stored profile = %s, want %s", raw, want)
	}

	out, err := repo.GetProfile(ctx, "ws")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if *out != *in {
		t.Errorf("GetProfile = %+v, want %+v", out, in)
	}
}

func TestGetRecipes(t *testing.T) {
	store := kv.NewMemory()
	repo := NewWorkspaceRepository(store)
	ctx := context.Background()

	t.Run("absent slot is empty", func(t *testing.T) {
		got, err := repo.GetRecipes(ctx, "ws", SlotSaved)
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("GetRecipes = (%v, %v), want empty non-nil list", got, err)
		}
	})

	t.Run("malformed value falls back to empty", func(t *testing.T) {
		store.Set(ctx, "ws:gemini-favorites", "{not json")
		got, err := repo.GetRecipes(ctx, "ws", SlotFavorites)
		if err == nil {
			t.Error("expected decode error")
		}
		if len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		recipes := []models.Recipe{{ID: "r1", RecipeName: "Soup", Rating: 4}}
		if err := repo.SaveRecipes(ctx, "ws", SlotSaved, recipes); err != nil {
			t.Fatalf("SaveRecipes: %v", err)
		}
		got, err := repo.GetRecipes(ctx, "ws", SlotSaved)
		if err != nil || len(got) != 1 || got[0].RecipeName != "Soup" || got[0].Rating != 4 {
			t.Errorf("GetRecipes = (%+v, %v)", got, err)
		}
	})

	t.Run("nil list stored as empty array", func(t *testing.T) {
		repo.SaveRecipes(ctx, "ws2", SlotSaved, nil)
		raw, _, _ := store.Get(ctx, "ws2:gemini-recipes")
		if raw != "[]" {
			t.Errorf("stored = %q, want []", raw)
		}
	})
}

func TestTheme(t *testing.T) {
	store := kv.NewMemory()
	repo := NewWorkspaceRepository(store)
	ctx := context.Background()

	if got, _ := repo.GetTheme(ctx, "ws"); got != models.ThemeLight {
		t.Errorf("default theme = %q", got)
	}
	repo.SaveTheme(ctx, "ws", models.ThemeDark)
	if raw, _, _ := store.Get(ctx, "ws:ingredai-theme"); raw != "dark" {
		t.Errorf("stored theme = %q, want dark", raw)
	}
	if got, _ := repo.GetTheme(ctx, "ws"); got != models.ThemeDark {
		t.Errorf("theme = %q", got)
	}
	store.Set(ctx, "ws:ingredai-theme", "purple")
	if got, _ := repo.GetTheme(ctx, "ws"); got != models.ThemeLight {
		t.Errorf("unknown theme should read as light, got %q", got)
	}
}

func TestTwoFactor(t *testing.T) {
	store := kv.NewMemory()
	repo := NewWorkspaceRepository(store)
	ctx := context.Background()

	if on, _ := repo.GetTwoFactor(ctx, "ws"); on {
		t.Error("default should be off")
	}
	repo.SaveTwoFactor(ctx, "ws", true)
	if raw, _, _ := store.Get(ctx, "ws:ingredai-2fa-enabled"); raw != "true" {
		t.Errorf("stored = %q, want true", raw)
	}
	if on, _ := repo.GetTwoFactor(ctx, "ws"); !on {
		t.Error("expected on")
	}
}

func TestRemove(t *testing.T) {
	store := kv.NewMemory()
	repo := NewWorkspaceRepository(store)
	ctx := context.Background()

	repo.SaveTheme(ctx, "ws", models.ThemeDark)
	repo.SaveRecipes(ctx, "ws", SlotSaved, []models.Recipe{{RecipeName: "A"}})
	repo.SaveRecipes(ctx, "other", SlotSaved, []models.Recipe{{RecipeName: "B"}})

	if err := repo.Remove(ctx, "ws", SlotTheme, SlotSaved); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected only the other workspace's key left, have %d keys", store.Len())
	}
}

func TestFailingStore(t *testing.T) {
	repo := NewWorkspaceRepository(failingStore{})
	ctx := context.Background()

	if theme, err := repo.GetTheme(ctx, "ws"); err == nil || theme != models.ThemeLight {
		t.Errorf("GetTheme = (%q, %v), want light with error", theme, err)
	}
	if err := repo.SaveTheme(ctx, "ws", models.ThemeDark); err == nil {
		t.Error("expected SaveTheme error")
	}
	if err := repo.Remove(ctx, "ws", SlotTheme, SlotSaved); err == nil {
		t.Error("expected Remove error")
	}
}
