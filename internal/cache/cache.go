// Package cache provides the layered cache that lets repeated pipeline
// runs skip re-extracting unchanged documents and re-requesting LLM
// suggestions.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/participax/civiclens/internal/model"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from its parts. Parts are joined and
// hashed, so keys are filename-safe no matter what goes in.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "civiclens:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg. Disabled caching yields a no-op
// cache rather than nil.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return NopCache{}
	}

	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "civiclens-cache")
	}
	ttl := time.Duration(cfg.TTLDays) * 24 * time.Hour

	return NewLayeredCache(30*time.Minute, dir, ttl)
}

// NopCache never stores anything.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (NopCache) Set(string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (NopCache) Delete(string) error { return nil }

// Clear does nothing.
func (NopCache) Clear() error { return nil }
