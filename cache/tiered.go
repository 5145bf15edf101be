package cache

import (
	"time"

	"github.com/samber/mo"
)

// Tiered layers a fast store over a slower one. Reads prefer the primary and
// backfill it from the secondary; writes go to both.
type Tiered[T any] struct {
	primary   Store[T]
	secondary Store[T]
}

// NewTiered constructs a two-level store.
func NewTiered[T any](primary, secondary Store[T]) *Tiered[T] {
	return &Tiered[T]{primary: primary, secondary: secondary}
}

// Get retrieves a live value, consulting the secondary store on a primary miss.
// A secondary hit is promoted to the primary with the remaining default TTL
// unknown, so promotion reuses a short fixed lifetime; the authoritative expiry
// still lives in the secondary entry.
func (c *Tiered[T]) Get(key string) mo.Option[T] {
	if v := c.primary.Get(key); v.IsPresent() {
		return v
	}

	v := c.secondary.Get(key)
	if v.IsPresent() {
		c.primary.Set(key, v.MustGet(), time.Minute)
	}
	return v
}

// Set stores the value in both levels.
func (c *Tiered[T]) Set(key string, value T, ttl time.Duration) {
	c.primary.Set(key, value, ttl)
	c.secondary.Set(key, value, ttl)
}

// Delete removes the entry from both levels.
func (c *Tiered[T]) Delete(key string) {
	c.primary.Delete(key)
	c.secondary.Delete(key)
}
