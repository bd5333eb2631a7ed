package cache

import (
	"testing"
	"time"
)

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory(3600)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("Expected hit")
	}
	if val != "value1" {
		t.Errorf("Expected 'value1', got %q", val)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	c := NewMemory(3600)
	c.Set("key", "old")
	c.Set("key", "new")

	val, _ := c.Get("key")
	if val != "new" {
		t.Errorf("Expected 'new', got %q", val)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	c := NewMemory(1)
	c.Set("key", "value")

	// Force the entry past its TTL rather than sleeping.
	c.mu.Lock()
	entry := c.cache["key"]
	entry.timestamp = time.Now().Add(-2 * time.Second)
	c.cache["key"] = entry
	c.mu.Unlock()

	if _, ok := c.Get("key"); ok {
		t.Error("Expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry removed on read, got %d", c.Len())
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory(0)
	c.Set("key", "value")

	c.mu.Lock()
	entry := c.cache["key"]
	entry.timestamp = time.Now().Add(-24 * time.Hour)
	c.cache["key"] = entry
	c.mu.Unlock()

	if _, ok := c.Get("key"); !ok {
		t.Error("Expected entry kept with no TTL")
	}
}

func TestMemory_Clear(t *testing.T) {
	c := NewMemory(3600)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Expected miss after Clear")
	}
}

func TestMemory_Entries(t *testing.T) {
	c := NewMemory(3600)
	c.Set("a", "1")
	c.Set("b", "2")

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries["a"] != "1" || entries["b"] != "2" {
		t.Errorf("Unexpected entries: %v", entries)
	}
}

func TestMemory_EntriesSkipsExpired(t *testing.T) {
	c := NewMemory(1)
	c.Set("fresh", "1")
	c.Set("stale", "2")

	c.mu.Lock()
	entry := c.cache["stale"]
	entry.timestamp = time.Now().Add(-2 * time.Second)
	c.cache["stale"] = entry
	c.mu.Unlock()

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if _, ok := entries["stale"]; ok {
		t.Error("Expected expired entry excluded")
	}
}
