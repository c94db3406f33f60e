package state

import "sync"

// PageRef is a lightweight handle to a page the tools have already resolved.
// Version is zero when only a summary was seen (summaries carry no version).
type PageRef struct {
	ID      int64
	Space   string
	Title   string
	Version int
}

// Cache holds lightweight shared state across MCP tool invocations, so a
// follow-up update can reuse the page ID resolved by an earlier lookup.
type Cache struct {
	mu           sync.RWMutex
	pages        map[string]PageRef
	lastSpaceKey string
}

// NewCache creates a Cache.
func NewCache() *Cache {
	return &Cache{pages: make(map[string]PageRef)}
}

func pageKey(space, title string) string { return space + ":" + title }

// RememberPage stores a resolved page handle.
func (c *Cache) RememberPage(ref PageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(ref.Space, ref.Title)] = ref
}

// Page retrieves a previously resolved page handle.
func (c *Cache) Page(space, title string) (PageRef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ref, ok := c.pages[pageKey(space, title)]
	return ref, ok
}

// SetLastSpaceKey records the most recently used space key.
func (c *Cache) SetLastSpaceKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSpaceKey = key
}

// LastSpaceKey returns the most recently used space key.
func (c *Cache) LastSpaceKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSpaceKey
}
