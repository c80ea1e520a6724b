// Package cache keeps evaluated configurations in memory keyed on the content
// hash of their source, so repeated runs in watch mode only evaluate a
// configuration module again when it actually changed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/project"
)

// Hash computes a SHA-256 hash of the given content
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Entry is an evaluated configuration with the hash of its source
type Entry struct {
	Config   *project.Config
	Hash     string
	Path     string
	CachedAt time.Time
}

// ConfigCache is a concurrency-safe map of configuration path to Entry
type ConfigCache struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewConfigCache creates an empty cache
func NewConfigCache() *ConfigCache {
	return &ConfigCache{entries: make(map[string]*Entry)}
}

// Get retrieves a cached configuration by file path
func (c *ConfigCache) Get(path string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	return entry, exists
}

// Set stores a configuration in the cache
func (c *ConfigCache) Set(path string, cfg *project.Config, hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = &Entry{
		Config:   cfg,
		Hash:     hash,
		Path:     path,
		CachedAt: time.Now(),
	}
}

// Invalidate removes an entry from the cache
func (c *ConfigCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
}

// Size returns the number of cached entries
func (c *ConfigCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Extractor evaluates a configuration module
type Extractor interface {
	Extract(ctx context.Context, path string) (*project.Config, error)
	ExtractSource(ctx context.Context, path string, src []byte) (*project.Config, error)
}

// Loader wraps an Extractor and returns the previous result while the
// configuration source is byte for byte unchanged. Failed extractions are
// never cached.
type Loader struct {
	fs     afero.Fs
	next   Extractor
	cache  *ConfigCache
	logger *zap.Logger
}

// NewLoader creates a caching loader in front of next. A nil logger discards
// output.
func NewLoader(fs afero.Fs, next Extractor, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fs: fs, next: next, cache: NewConfigCache(), logger: logger}
}

// Extract returns the configuration at path. The source is read once and
// the same bytes are hashed and evaluated.
func (l *Loader) Extract(ctx context.Context, path string) (*project.Config, error) {
	src, err := afero.ReadFile(l.fs, path)
	if err != nil {
		// The extractor reports unreadable sources with its own error
		l.cache.Invalidate(path)
		return l.next.Extract(ctx, path)
	}

	hash := Hash(src)
	if entry, ok := l.cache.Get(path); ok && entry.Hash == hash {
		l.logger.Debug("configuration unchanged, reusing evaluation",
			zap.String("path", path), zap.Time("cached_at", entry.CachedAt))
		return entry.Config, nil
	}

	cfg, err := l.next.ExtractSource(ctx, path, src)
	if err != nil {
		l.cache.Invalidate(path)
		return nil, err
	}

	l.cache.Set(path, cfg, hash)
	return cfg, nil
}
