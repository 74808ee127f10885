// Package cache provides a small per-user TTL cache for memoizing insight
// snapshots. It only affects latency, never correctness: a miss always makes
// the caller recompute, so skipping the cache entirely is always safe.
package cache

import (
	"sync"
	"time"
)

// Default bounds used when the corresponding Config field is zero.
const (
	DefaultTTL            = 60 * time.Second
	DefaultMaxKeysPerUser = 20
)

// Config holds cache tuning options.
type Config struct {
	TTL            time.Duration
	MaxKeysPerUser int
}

// Clock supplies the current time; injectable for deterministic tests.
type Clock func() time.Time

type entry struct {
	value        any
	expiresAt    time.Time
	lastAccessed time.Time
}

// Cache is a bounded per-user TTL cache. Buckets are keyed by user id, then
// by an opaque parameter string. Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	users map[int64]map[string]*entry

	ttl     time.Duration
	maxKeys int
	now     Clock
}

// New creates a Cache. A nil clock defaults to time.Now.
func New(cfg Config, now Clock) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxKeysPerUser <= 0 {
		cfg.MaxKeysPerUser = DefaultMaxKeysPerUser
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		users:   make(map[int64]map[string]*entry),
		ttl:     cfg.TTL,
		maxKeys: cfg.MaxKeysPerUser,
		now:     now,
	}
}

// Get returns the cached value for (userID, key), or a miss. An expired
// entry is deleted lazily and reported as a miss; a hit touches the entry's
// last-access time.
func (c *Cache) Get(userID int64, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.users[userID]
	if !ok {
		return nil, false
	}
	e, ok := bucket[key]
	if !ok {
		return nil, false
	}

	now := c.now()
	if now.After(e.expiresAt) {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(c.users, userID)
		}
		return nil, false
	}

	e.lastAccessed = now
	return e.value, true
}

// Set inserts or overwrites (userID, key), then sweeps the user's bucket:
// expired entries go first, and if the bucket still exceeds the per-user
// bound the least-recently-accessed entries are evicted.
func (c *Cache) Set(userID int64, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	bucket, ok := c.users[userID]
	if !ok {
		bucket = make(map[string]*entry)
		c.users[userID] = bucket
	}
	bucket[key] = &entry{
		value:        value,
		expiresAt:    now.Add(c.ttl),
		lastAccessed: now,
	}

	for k, e := range bucket {
		if now.After(e.expiresAt) {
			delete(bucket, k)
		}
	}

	for len(bucket) > c.maxKeys {
		oldestKey := ""
		var oldest time.Time
		for k, e := range bucket {
			if oldestKey == "" || e.lastAccessed.Before(oldest) {
				oldestKey = k
				oldest = e.lastAccessed
			}
		}
		delete(bucket, oldestKey)
	}
}

// Clear drops all entries for one user.
func (c *Cache) Clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
}

// ClearAll drops every entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = make(map[int64]map[string]*entry)
}

// Len reports the number of live entries for a user. Used by tests and the
// health surface.
func (c *Cache) Len(userID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users[userID])
}
