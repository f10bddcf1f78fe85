package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// TestBolt tests the embedded file-backed strategy
func TestBolt(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T) *Bolt {
		t.Helper()
		c, err := NewBolt(filepath.Join(t.TempDir(), "cache.db"), 0)
		if err != nil {
			t.Fatalf("Failed to open bolt cache: %v", err)
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

	t.Run("ExpiredEntryIsMiss", func(t *testing.T) {
		c := newCache(t)
		c.Set(ctx, "k", []byte("v"), time.Nanosecond)
		time.Sleep(5 * time.Millisecond)
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

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		c, err := NewBolt(path, 0)
		if err != nil {
			t.Fatalf("Failed to open bolt cache: %v", err)
		}
		c.Set(ctx, "k", []byte("persisted"), 0)
		c.Close()

		reopened, err := NewBolt(path, 0)
		if err != nil {
			t.Fatalf("Failed to reopen bolt cache: %v", err)
		}
		defer reopened.Close()

		got, ok, _ := reopened.Get(ctx, "k")
		if !ok || string(got) != "persisted" {
			t.Errorf("Entry did not survive reopen: ok=%v value=%q", ok, got)
		}
	})
}
