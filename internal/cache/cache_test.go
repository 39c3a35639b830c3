package cache

import (
	"testing"
	"time"

	"github.com/participax/civiclens/internal/model"
)

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("extract", "notes.txt", "123")
	b := Key("extract", "notes.txt", "123")
	c := Key("extract", "notes.txt", "124")

	if a != b {
		t.Errorf("Expected identical keys for identical parts, got %q and %q", a, b)
	}
	if a == c {
		t.Error("Expected different keys for different parts")
	}
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("Expected part boundaries to matter")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected v, got %q (found=%v)", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("text", "a.pdf"), []byte("hello"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get(Key("text", "a.pdf"))
	if !found || string(val) != "hello" {
		t.Errorf("Expected hello, got %q (found=%v)", val, found)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCachePromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Seed only the disk layer, then read through the stack twice.
	if err := c.disk.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Expected disk hit, got %q (found=%v)", val, found)
	}

	if _, found := c.memory.Get("k"); !found {
		t.Error("Expected promotion into the memory layer")
	}
}

func TestNewRespectsDisabledConfig(t *testing.T) {
	c := New(model.CacheConfig{Enabled: false})

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected disabled cache to never hit")
	}
}
