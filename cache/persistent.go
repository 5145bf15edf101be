package cache

import (
	"sync"
	"time"

	"github.com/aniflux/aniflux/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// Persistent is a Store that survives restarts by serializing its entries to a
// single JSON file through the gache library and the swappable filesystem
// backend. Per-entry expiry is tracked in the payload itself so that a stale
// entry loaded from disk is still refused.
type Persistent[T any] struct {
	mu       sync.RWMutex
	internal *gache.Cache[map[string]entry[T]]
}

// NewPersistent constructs a file-backed store rooted at path.
func NewPersistent[T any](path string) *Persistent[T] {
	return &Persistent[T]{
		internal: gache.New[map[string]entry[T]](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

// Get retrieves a live value, or None on a miss or an expired entry.
func (c *Persistent[T]) Get(key string) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		return mo.None[T]()
	}

	e, ok := data[key]
	if !ok || e.expired(time.Now()) {
		return mo.None[T]()
	}
	return mo.Some(e.Value)
}

// Set stores a value that expires ttl from now. Expired siblings are pruned on
// the same write to keep the file bounded.
func (c *Persistent[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		data = make(map[string]entry[T])
	}

	now := time.Now()
	for k, e := range data {
		if e.expired(now) {
			delete(data, k)
		}
	}

	data[key] = entry[T]{Value: value, ExpiresAt: now.Add(ttl)}
	_ = c.internal.Set(data)
}

// Delete removes the entry associated with the specified key.
func (c *Persistent[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _, err := c.internal.Get()
	if err != nil || data == nil {
		return
	}

	delete(data, key)
	_ = c.internal.Set(data)
}
