// Package cache provides an in-process LRU cache for find results, honoring
// the cache hints carried in a parameter bag.
package cache

import (
	"fmt"
	"hash/fnv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/querycraft/criteria/pkg/core"
)

// DefaultSize is the entry capacity used when none is configured.
const DefaultSize = 256

// entry pairs a cached result set with its expiry deadline. A zero deadline
// never expires.
type entry struct {
	result    core.ResultSet
	expiresAt time.Time
}

// ResultCache is a bounded LRU of result sets with per-entry expiry.
type ResultCache struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

// New creates a result cache holding at most size entries. A non-positive
// size falls back to DefaultSize.
func New(size int) (*ResultCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{entries: entries, now: time.Now}, nil
}

// Get returns the cached result set for key, expiring stale entries on
// access.
func (c *ResultCache) Get(key string) (core.ResultSet, bool) {
	cached, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if !cached.expiresAt.IsZero() && c.now().After(cached.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return cached.result, true
}

// Set stores a result set under key. A zero lifetime caches the entry until
// it is evicted.
func (c *ResultCache) Set(key string, result core.ResultSet, lifetime time.Duration) {
	cached := entry{result: result}
	if lifetime > 0 {
		cached.expiresAt = c.now().Add(lifetime)
	}
	c.entries.Add(key, cached)
}

// Purge drops every cached entry.
func (c *ResultCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of live entries, counting entries that have expired
// but not yet been evicted.
func (c *ResultCache) Len() int {
	return c.entries.Len()
}

// Key derives a deterministic cache key from a compiled statement and its
// arguments, for cache hints that carry no explicit key.
func Key(sql string, args []any) string {
	h := fnv.New64a()
	fmt.Fprint(h, sql)
	for _, arg := range args {
		fmt.Fprintf(h, "|%v", arg)
	}
	return fmt.Sprintf("criteria:%x", h.Sum64())
}
