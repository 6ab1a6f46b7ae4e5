// ABOUTME: Session-scoped playback cache
// ABOUTME: Memoizes generated audio handles per identifier, first writer wins
package speech

import "sync"

// Cache memoizes generated audio per identifier so repeated playback
// requests skip the external generation call. Entries are never
// evicted within a session and never persisted across sessions.
// Bounding the cache (e.g. LRU) would change observable behavior and
// is deliberately not done here.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Handle
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Handle)}
}

// Get returns the cached handle for id, or nil. Pure lookup, no side
// effects.
func (c *Cache) Get(id string) *Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// Put stores h for id if no entry exists yet. The stored (winning)
// handle is returned along with whether h was the one stored. A losing
// handle is not retained; the caller must release it.
func (c *Cache) Put(id string, h *Handle) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[id]; ok {
		return existing, false
	}
	c.entries[id] = h
	return h, true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
