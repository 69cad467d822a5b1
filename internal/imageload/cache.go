package imageload

import (
	"context"
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingLoader keeps recently decoded thumbnails in memory so URLs that the
// Registry already knows can be drawn without another fetch.
type CachingLoader struct {
	next  Loader
	cache *lru.Cache[string, image.Image]
}

// NewCachingLoader wraps next with an LRU of the given size
func NewCachingLoader(next Loader, size int) (*CachingLoader, error) {
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail cache: %w", err)
	}
	return &CachingLoader{next: next, cache: cache}, nil
}

// Load implements Loader
func (c *CachingLoader) Load(ctx context.Context, url string) (image.Image, error) {
	if img, ok := c.cache.Get(url); ok {
		return img, nil
	}
	img, err := c.next.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	c.cache.Add(url, img)
	return img, nil
}

// Cached returns the thumbnail for url without fetching
func (c *CachingLoader) Cached(url string) (image.Image, bool) {
	return c.cache.Get(url)
}

// Len returns the number of cached thumbnails
func (c *CachingLoader) Len() int {
	return c.cache.Len()
}
