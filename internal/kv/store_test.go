package kv

import (
	"context"
	"testing"

	"github.com/windoze95/ingredai-api/internal/db"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "ws:ingredai-theme"); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "ws:ingredai-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "ws:ingredai-theme")
	if err != nil || !ok || v != "dark" {
		t.Fatalf("Get = (%q, %v, %v), want (dark, true, nil)", v, ok, err)
	}

	if err := s.Set(ctx, "ws:ingredai-theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "ws:ingredai-theme"); v != "light" {
		t.Errorf("after overwrite Get = %q, want light", v)
	}

	if err := s.Remove(ctx, "ws:ingredai-theme"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "ws:ingredai-theme"); ok {
		t.Error("expected key to be gone after Remove")
	}

	if err := s.Remove(ctx, "never-set"); err != nil {
		t.Errorf("Remove of missing key: %v", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestGormStore(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	exerciseStore(t, NewGormStore(database))
}

func TestGormStore_KeepsKeysSeparate(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := NewGormStore(database)
	ctx := context.Background()

	s.Set(ctx, "a:gemini-recipes", `[{"recipeName":"A"}]`)
	s.Set(ctx, "b:gemini-recipes", `[]`)

	v, _, _ := s.Get(ctx, "a:gemini-recipes")
	if v != `[{"recipeName":"A"}]` {
		t.Errorf("workspace a value = %q", v)
	}
	v, _, _ = s.Get(ctx, "b:gemini-recipes")
	if v != `[]` {
		t.Errorf("workspace b value = %q", v)
	}
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not a url", "ingredai:"); err == nil {
		t.Error("expected error for invalid redis url")
	}
}
