// Package cache provides injected TTL key-value stores shared by concurrent resolutions.
//
// Stores are explicit dependencies with a defined lifetime: construct one, hand
// it to whatever needs it, and stop its garbage collector on teardown. Nothing
// in this package is reachable through package-level state.
package cache

import (
	"sync"
	"time"

	"github.com/samber/mo"
)

// entry pairs a cached value with its absolute expiry instant.
// An entry past ExpiresAt must never be served.
type entry[T any] struct {
	Value     T         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e entry[T]) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is the read-through get/set contract consumed by the resolver.
type Store[T any] interface {
	// Get retrieves a live value, or None on a miss or an expired entry.
	Get(key string) mo.Option[T]

	// Set stores a value that expires ttl from now.
	Set(key string, value T, ttl time.Duration)

	// Delete removes the entry associated with the specified key.
	Delete(key string)
}

// Memory is an in-process Store backed by a mutex-guarded map.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// NewMemory constructs an empty in-memory store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{entries: make(map[string]entry[T])}
}

// Get retrieves a live value, or None on a miss or an expired entry.
func (c *Memory[T]) Get(key string) mo.Option[T] {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return mo.None[T]()
	}
	return mo.Some(e.Value)
}

// Set stores a value that expires ttl from now.
func (c *Memory[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{Value: value, ExpiresAt: time.Now().Add(ttl)}
}

// Delete removes the entry associated with the specified key.
func (c *Memory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of entries currently held, expired ones included.
func (c *Memory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CollectGarbage starts a background task that prunes expired entries at the
// given interval. The returned function stops the collector.
func (c *Memory[T]) CollectGarbage(interval time.Duration) (stop func()) {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				c.mu.Lock()
				for k, e := range c.entries {
					if e.expired(now) {
						delete(c.entries, k)
					}
				}
				c.mu.Unlock()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
