package graphql

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetZeroTTLAlwaysMisses(t *testing.T) {
	cache := NewCache()
	cache.put("key", json.RawMessage(`{"a":1}`))

	_, ok := cache.get("key", 0)
	assert.False(t, ok)

	_, ok = cache.get("key", -time.Second)
	assert.False(t, ok)
}

func TestCacheExpiryBoundary(t *testing.T) {
	now := time.Now()
	cache := newCacheWithClock(func() time.Time { return now })
	cache.put("key", json.RawMessage(`{"a":1}`))

	now = now.Add(time.Minute - time.Millisecond)
	_, ok := cache.get("key", time.Minute)
	assert.True(t, ok, "just inside the TTL")

	now = now.Add(time.Millisecond)
	_, ok = cache.get("key", time.Minute)
	assert.False(t, ok, "age equal to the TTL counts as expired")
}

func TestCachePerLookupTTL(t *testing.T) {
	now := time.Now()
	cache := newCacheWithClock(func() time.Time { return now })
	cache.put("key", json.RawMessage(`{"a":1}`))

	now = now.Add(30 * time.Second)

	_, ok := cache.get("key", time.Minute)
	assert.True(t, ok, "live under a one-minute TTL")

	_, ok = cache.get("key", 10*time.Second)
	assert.False(t, ok, "expired under a ten-second TTL")
}

func TestFingerprintStability(t *testing.T) {
	a, ok := fingerprint("query Q", map[string]interface{}{"x": 1, "y": "b"})
	assert.True(t, ok)
	b, _ := fingerprint("query Q", map[string]interface{}{"y": "b", "x": 1})
	assert.Equal(t, a, b, "key order must not change the fingerprint")

	c, _ := fingerprint("query Q", map[string]interface{}{"x": 2, "y": "b"})
	assert.NotEqual(t, a, c)

	d, _ := fingerprint("query Other", map[string]interface{}{"x": 1, "y": "b"})
	assert.NotEqual(t, a, d)
}

func TestFingerprintNilVariables(t *testing.T) {
	a, ok := fingerprint("query Q", nil)
	assert.True(t, ok)
	b, _ := fingerprint("query Q", nil)
	assert.Equal(t, a, b)
}

func TestFingerprintUnserializableVariablesNotCacheable(t *testing.T) {
	_, ok := fingerprint("query Q", map[string]interface{}{"ch": make(chan int)})
	assert.False(t, ok, "variables without a stable key must not be cached")
}
