// Package revalidate marks cached views stale after a mutation.
package revalidate

import (
	"sync"

	"wealth/internal/metrics"
)

// DashboardPath is the view rebuilt from account and transaction listings.
const DashboardPath = "/dashboard"

// Invalidator is told which view path went stale. It never fails.
type Invalidator interface {
	Revalidate(path string)
}

// Nop discards revalidation signals.
type Nop struct{}

// Revalidate implements Invalidator.
func (Nop) Revalidate(string) {}

type entry struct {
	generation uint64
	value      any
}

// Cache holds rendered views keyed by path and a caller-chosen key (usually
// the user). Revalidating a path bumps its generation, which makes every
// entry filled under an older generation stale.
type Cache struct {
	mu          sync.Mutex
	generations map[string]uint64
	entries     map[string]map[string]entry
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		generations: make(map[string]uint64),
		entries:     make(map[string]map[string]entry),
	}
}

// Generation returns the current generation of path. Callers take it before
// building a view and hand it to SetAt so a view computed across a
// revalidation is not stored as fresh.
func (c *Cache) Generation(path string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[path]
}

// Get returns the cached value for key under path when it is still fresh.
func (c *Cache) Get(path, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path][key]
	if !ok || e.generation != c.generations[path] {
		return nil, false
	}
	return e.value, true
}

// Set stores value for key under the current generation of path.
func (c *Cache) Set(path, key string, value any) {
	c.SetAt(path, key, value, c.Generation(path))
}

// SetAt stores value for key as built under generation gen. Values built
// under an older generation are dropped.
func (c *Cache) SetAt(path, key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generations[path] {
		return
	}
	byKey, ok := c.entries[path]
	if !ok {
		byKey = make(map[string]entry)
		c.entries[path] = byKey
	}
	byKey[key] = entry{generation: gen, value: value}
}

// Revalidate implements Invalidator.
func (c *Cache) Revalidate(path string) {
	c.mu.Lock()
	c.generations[path]++
	delete(c.entries, path)
	c.mu.Unlock()

	metrics.Revalidations.WithLabelValues(path).Inc()
}
