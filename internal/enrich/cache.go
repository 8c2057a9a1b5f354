package enrich

import (
	"sync"
	"time"
)

// Cache is an in-memory key-value store with per-entry TTL. It holds
// both whole-series records and individual episode records; an expired
// entry behaves exactly like one that was never set.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewCache creates an empty cache. Expired entries linger until the
// next Sweep but are never returned by Get.
func NewCache() *Cache {
	return &Cache{items: make(map[string]cacheItem)}
}

// Get retrieves an unexpired entry.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores an entry, replacing any previous value for the key.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Sweep removes expired entries and returns how many were dropped.
// Callers never depend on it; Get already treats expired as absent.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	dropped := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

// GetSeries retrieves a cached series record.
func (c *Cache) GetSeries(key string) (*SeriesRecord, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	record, ok := val.(*SeriesRecord)
	return record, ok
}

// GetEpisode retrieves a cached episode record.
func (c *Cache) GetEpisode(key string) (*EpisodeRecord, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	record, ok := val.(*EpisodeRecord)
	return record, ok
}
