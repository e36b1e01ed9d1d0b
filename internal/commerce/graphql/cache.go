package graphql

import (
	"encoding/json"
	"sync"
	"time"
)

// cacheEntry holds one successful raw response and the moment it was stored.
// Entries are replaced wholesale, never patched.
type cacheEntry struct {
	data     json.RawMessage
	storedAt time.Time
}

// Cache is a process-lifetime TTL cache for raw responses. It is owned by a
// Client rather than shared as a package global, and takes an injectable
// clock so expiry can be tested deterministically. The TTL is supplied per
// lookup: the same entry may be live for one caller and expired for another.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return newCacheWithClock(time.Now)
}

func newCacheWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

func (c *Cache) get(key string, ttl time.Duration) (json.RawMessage, bool) {
	if ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= ttl {
		return nil, false
	}
	return entry.data, true
}

func (c *Cache) put(key string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		data:     data,
		storedAt: c.now(),
	}
}

func (c *Cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fingerprint derives the deterministic cache key for an operation and its
// variables. encoding/json emits map keys in sorted order, so identical
// inputs always serialize identically. Variables that cannot be serialized
// have no stable key; those requests are reported not cacheable.
func fingerprint(query string, variables map[string]interface{}) (string, bool) {
	key, err := json.Marshal(struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}{Query: query, Variables: variables})
	if err != nil {
		return "", false
	}
	return string(key), true
}
