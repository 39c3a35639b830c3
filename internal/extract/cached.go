package extract

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/participax/civiclens/internal/cache"
)

// TextSource is the extraction surface the pipeline consumes. Both the
// plain registry and its cached wrapper satisfy it.
type TextSource interface {
	Supported(path string) bool
	Extensions() []string
	Extract(path string) (string, error)
}

// CachedRegistry wraps a registry with the layered cache. Keys fingerprint
// the file by path, size, and mtime, so edits invalidate naturally.
type CachedRegistry struct {
	registry *Registry
	cache    cache.Cache
	ttl      time.Duration
}

// NewCachedRegistry creates a caching wrapper around r.
func NewCachedRegistry(r *Registry, c cache.Cache, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{registry: r, cache: c, ttl: ttl}
}

// Supported reports whether path's extension has an extractor.
func (c *CachedRegistry) Supported(path string) bool {
	return c.registry.Supported(path)
}

// Extensions returns all supported extensions, sorted.
func (c *CachedRegistry) Extensions() []string {
	return c.registry.Extensions()
}

// Extract returns cached text when the file is unchanged, extracting and
// storing otherwise. Cache write failures are ignored.
func (c *CachedRegistry) Extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	key := cache.Key(
		"extract",
		path,
		strconv.FormatInt(info.Size(), 10),
		strconv.FormatInt(info.ModTime().UnixNano(), 10),
	)

	if data, found := c.cache.Get(key); found {
		return string(data), nil
	}

	text, err := c.registry.Extract(path)
	if err != nil {
		return "", err
	}

	_ = c.cache.Set(key, []byte(text), c.ttl)
	return text, nil
}
