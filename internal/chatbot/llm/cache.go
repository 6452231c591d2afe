package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type cacheEntry struct {
	storedAt time.Time
	response string
}

// responseCache memoizes full responses keyed by the prompt hash. Entries
// expire after ttl; when the cache grows past maxSize the oldest entry by
// insertion time is evicted.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

func newResponseCache(maxSize int, ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func (c *responseCache) get(prompt string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(prompt)
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return entry.response, true
}

func (c *responseCache) set(prompt, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(prompt)] = cacheEntry{storedAt: c.now(), response: response}

	if len(c.entries) > c.maxSize {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
