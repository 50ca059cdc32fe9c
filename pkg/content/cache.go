package content

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/go-drift/perch/pkg/geometry"
)

// AssetCache caches decoded asset dimensions by asset name.
//
// Decode failures are cached too, so a broken asset is decoded and reported
// once instead of on every tick. Missing assets (fs.ErrNotExist) are not
// cached, so they are picked up once they appear. Reset drops everything
// after assets change.
type AssetCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	size geometry.Size
	err  error
}

// NewAssetCache creates an empty asset cache.
func NewAssetCache() *AssetCache {
	return &AssetCache{items: make(map[string]cacheEntry)}
}

// Get returns the cached size for key, or runs loader and caches its result.
// The second return value reports whether loader ran.
//
// If the cache is nil, the loader is invoked directly.
func (c *AssetCache) Get(key string, loader func() (geometry.Size, error)) (geometry.Size, bool, error) {
	if loader == nil {
		return geometry.Size{}, false, errors.New("content: loader is nil")
	}
	if c == nil {
		size, err := loader()
		return size, true, err
	}

	c.mu.Lock()
	if e, ok := c.items[key]; ok {
		c.mu.Unlock()
		return e.size, false, e.err
	}
	c.mu.Unlock()

	size, err := loader()

	c.mu.Lock()
	if e, ok := c.items[key]; ok {
		c.mu.Unlock()
		return e.size, false, e.err
	}
	if !errors.Is(err, fs.ErrNotExist) {
		c.items[key] = cacheEntry{size: size, err: err}
	}
	c.mu.Unlock()

	return size, true, err
}

// Reset forgets every entry, so assets are decoded again on next use.
func (c *AssetCache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *AssetCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
