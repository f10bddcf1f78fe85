package cache

import (
	"context"
	"testing"
	"time"
)

// TestLRU tests the in-memory strategy
func TestLRU(t *testing.T) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		c := NewLRU(10, 0)
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
		c := NewLRU(10, 0)
		_, ok, err := c.Get(ctx, "absent")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected miss for absent key")
		}
	})

	t.Run("EvictsLeastRecentlyUsed", func(t *testing.T) {
		c := NewLRU(2, 0)
		c.Set(ctx, "a", []byte("1"), 0)
		c.Set(ctx, "b", []byte("2"), 0)

		// Touch a so b becomes coldest
		c.Get(ctx, "a")
		c.Set(ctx, "c", []byte("3"), 0)

		if _, ok, _ := c.Get(ctx, "b"); ok {
			t.Error("Expected b to be evicted")
		}
		if _, ok, _ := c.Get(ctx, "a"); !ok {
			t.Error("Expected a to survive eviction")
		}
		if c.Len() != 2 {
			t.Errorf("Expected 2 entries, got %d", c.Len())
		}
	})

	t.Run("UpdateDoesNotEvict", func(t *testing.T) {
		c := NewLRU(2, 0)
		c.Set(ctx, "a", []byte("1"), 0)
		c.Set(ctx, "b", []byte("2"), 0)
		c.Set(ctx, "a", []byte("updated"), 0)

		if c.Len() != 2 {
			t.Errorf("Expected 2 entries after update, got %d", c.Len())
		}
		got, ok, _ := c.Get(ctx, "a")
		if !ok || string(got) != "updated" {
			t.Errorf("Expected updated value, got ok=%v value=%q", ok, got)
		}
	})

	t.Run("ExpiredEntryIsMiss", func(t *testing.T) {
		c := NewLRU(10, 0)
		c.Set(ctx, "k", []byte("v"), time.Nanosecond)
		time.Sleep(5 * time.Millisecond)

		if _, ok, _ := c.Get(ctx, "k"); ok {
			t.Error("Expected expired entry to miss")
		}
	})

	t.Run("ClearKey", func(t *testing.T) {
		c := NewLRU(10, 0)
		c.Set(ctx, "k", []byte("v"), 0)
		if err := c.ClearKey(ctx, "k"); err != nil {
			t.Fatalf("ClearKey failed: %v", err)
		}
		if _, ok, _ := c.Get(ctx, "k"); ok {
			t.Error("Expected miss after ClearKey")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c := NewLRU(10, 0)
		c.Set(ctx, "a", []byte("1"), 0)
		c.Set(ctx, "b", []byte("2"), 0)
		if err := c.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty cache after Clear, got %d entries", c.Len())
		}
	})

	t.Run("Stats", func(t *testing.T) {
		c := NewLRU(10, 0)
		c.Set(ctx, "k", []byte("v"), 0)
		c.Get(ctx, "k")
		c.Get(ctx, "absent")

		stats := c.GetStats()
		if stats.Hits != 1 || stats.Misses != 1 {
			t.Errorf("Expected 1 hit and 1 miss, got %+v", stats)
		}
		if stats.HitRate != 50 {
			t.Errorf("Expected 50%% hit rate, got %f", stats.HitRate)
		}
	})
}

// TestNoop tests the disabled-cache strategy
func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := NewNoop()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Noop must always miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

// TestFingerprint tests cache key derivation
func TestFingerprint(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := Fingerprint("some text", "en", 0.5, []string{"PERSON", "EMAIL_ADDRESS"})
		b := Fingerprint("some text", "en", 0.5, []string{"PERSON", "EMAIL_ADDRESS"})
		if a != b {
			t.Errorf("Same inputs produced different keys: %q vs %q", a, b)
		}
	})

	t.Run("EntityOrderIrrelevant", func(t *testing.T) {
		a := Fingerprint("text", "en", 0.5, []string{"PERSON", "EMAIL_ADDRESS"})
		b := Fingerprint("text", "en", 0.5, []string{"EMAIL_ADDRESS", "PERSON"})
		if a != b {
			t.Error("Entity type order must not change the key")
		}
	})

	t.Run("ConfigurationChangesKey", func(t *testing.T) {
		base := Fingerprint("text", "en", 0.5, []string{"PERSON"})
		if Fingerprint("other", "en", 0.5, []string{"PERSON"}) == base {
			t.Error("Different text must change the key")
		}
		if Fingerprint("text", "de", 0.5, []string{"PERSON"}) == base {
			t.Error("Different language must change the key")
		}
		if Fingerprint("text", "en", 0.7, []string{"PERSON"}) == base {
			t.Error("Different threshold must change the key")
		}
		if Fingerprint("text", "en", 0.5, []string{"EMAIL_ADDRESS"}) == base {
			t.Error("Different entity set must change the key")
		}
	})

	t.Run("SurroundingWhitespaceIgnored", func(t *testing.T) {
		a := Fingerprint("text", "en", 0.5, nil)
		b := Fingerprint("  text\n", "en", 0.5, nil)
		if a != b {
			t.Error("Leading/trailing whitespace must not change the key")
		}
	})

	t.Run("Namespaced", func(t *testing.T) {
		key := Fingerprint("text", "en", 0.5, nil)
		if key[:4] != "doc:" {
			t.Errorf("Expected doc: namespace prefix, got %q", key)
		}
	})
}
