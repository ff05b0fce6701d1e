// Package cache memoizes per-document parse results until the document is
// edited or closed.
//
// A Cache is not safe for concurrent use. Callers serialize access on the
// goroutine that also delivers edit notifications, which is what guarantees
// a query never observes an entry computed from pre-edit text.
package cache

// Stats counts lookups served from and missed by the cache.
type Stats struct {
	Hits   int
	Misses int
}

// Cache maps a document identity to its last computed value.
type Cache[V any] struct {
	entries map[string]V
	stats   Stats
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.entries[key]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return v, ok
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss.
func (c *Cache[V]) GetOrCompute(key string, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.entries[key] = v
	return v
}

// Delete drops the entry for key. Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) {
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	clear(c.entries)
}

// Len returns the number of cached documents.
func (c *Cache[V]) Len() int {
	return len(c.entries)
}

// Stats returns the lookup counters.
func (c *Cache[V]) Stats() Stats {
	return c.stats
}
