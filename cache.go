package rowkit

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching Find results.
// Users may implement it with their preferred caching solution
// (e.g., Redis, Memcached); MemoryCache is an in-process implementation.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CacheKey identifies a cached statement result.
type CacheKey struct {
	Table string
	Query string
	Args  []byte // msgpack-encoded arguments
}

// Prefix returns the key prefix shared by every entry of the table.
func (k CacheKey) Prefix() string {
	return tablePrefix(k.Table)
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Prefix() + k.Query + ":" + string(k.Args)
}

func tablePrefix(table string) string {
	return table + ":"
}

func encodeRows(rows []Record) ([]byte, error) {
	plain := make([]map[string]any, len(rows))
	for i := range rows {
		plain[i] = rows[i]
	}
	return msgpack.Marshal(plain)
}

func decodeRows(b []byte) ([]Record, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	// Integers decode as int64 and floats as float64, as database/sql scans them.
	dec.UseLooseInterfaceDecoding(true)
	var plain []map[string]any
	if err := dec.Decode(&plain); err != nil {
		return nil, err
	}
	rows := make([]Record, len(plain))
	for i := range plain {
		rows[i] = plain[i]
	}
	return rows, nil
}

// MemoryCache is a Cache kept in process memory. It is safe for
// concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A Set may have replaced the entry since it was read.
		e, ok = c.entries[key]
		if !ok {
			return nil, nil
		}
		if e.expired(c.now()) {
			delete(c.entries, key)
			return nil, nil
		}
	}
	return e.value, nil
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
