package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// TestSQLite tests the embedded SQL-backed strategy
func TestSQLite(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T) *SQLite {
		t.Helper()
		c, err := NewSQLite(filepath.Join(t.TempDir(), "cache.sqlite"), 0)
		if err != nil {
			t.Fatalf("Failed to open sqlite cache: %v", err)
		}
		t.Cleanup(func() { c.Close() })
		return c
	}

	t.Run("SetAndGet", func(t *testing.T) {
		c := newCache(t)
		if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, ok, err := c.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || string(got) != "v" {
			t.Errorf("Expected hit with %q, got ok=%v value=%q", "v", ok, got)
		}
	})

	t.Run("MissingKeyIsMiss", func(t *testing.T) {
		c := newCache(t)
		if _, ok, _ := c.Get(ctx, "absent"); ok {
			t.Error("Expected miss for absent key")
		}
	})

	t.Run("ReplaceExisting", func(t *testing.T) {
		c := newCache(t)
		c.Set(ctx, "k", []byte("old"), 0)
		c.Set(ctx, "k", []byte("new"), 0)

		got, ok, _ := c.Get(ctx, "k")
		if !ok || string(got) != "new" {
			t.Errorf("Expected replaced value, got ok=%v value=%q", ok, got)
		}
	})

	t.Run("ExpiredEntryIsMiss", func(t *testing.T) {
		c := newCache(t)
		c.Set(ctx, "k", []byte("v"), time.Second)

		// Backdate the entry past its TTL instead of sleeping
		if _, err := c.db.Exec(
			`UPDATE cache_entries SET created_at = ? WHERE key = ?`,
			time.Now().UTC().Add(-time.Hour), "k",
		); err != nil {
			t.Fatalf("Failed to backdate entry: %v", err)
		}

		if _, ok, _ := c.Get(ctx, "k"); ok {
			t.Error("Expected expired entry to miss")
		}
	})

	t.Run("ClearKey", func(t *testing.T) {
		c := newCache(t)
		c.Set(ctx, "k", []byte("v"), 0)
		if err := c.ClearKey(ctx, "k"); err != nil {
			t.Fatalf("ClearKey failed: %v", err)
		}
		if _, ok, _ := c.Get(ctx, "k"); ok {
			t.Error("Expected miss after ClearKey")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c := newCache(t)
		c.Set(ctx, "a", []byte("1"), 0)
		c.Set(ctx, "b", []byte("2"), 0)
		if err := c.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, ok, _ := c.Get(ctx, "a"); ok {
			t.Error("Expected miss after Clear")
		}
	})
}
