package knowledge

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL bounds how long a synthesized answer stays servable.
	DefaultTTL = 24 * time.Hour
	// DefaultCapacity bounds entry count; the oldest entry is evicted on
	// overflow so the cache cannot grow without limit.
	DefaultCapacity = 1024
)

type entry struct {
	text      string
	createdAt time.Time
}

// Cache stores previously synthesized answers keyed by normalized query
// text. Entries expire lazily after the TTL and the store is capacity
// bounded. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewCache(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// NormalizeKey canonicalizes a query string: lowercase, trimmed,
// whitespace collapsed.
func NormalizeKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Lookup returns the cached answer for a query if present and unexpired.
// An expired entry is removed as a side effect of this call.
func (c *Cache) Lookup(query string) (string, bool) {
	key := NormalizeKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.text, true
}

// Store upserts an answer under the normalized key with the current
// timestamp. When the cache is full, the oldest entry is evicted first.
func (c *Cache) Store(query, text string) {
	key := NormalizeKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{text: text, createdAt: c.now()}
}

// Len reports the current entry count, expired entries included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
