package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset"
)

// lookupCache is an LRU-backed keyset.LookupCache tracking hits, misses and evictions.
type lookupCache struct {
	lru       *lru.Cache[string, domain.Membership]
	capacity  int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabledCache always misses and tracks no metrics.
type disabledCache struct{}

// New creates a LookupCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned.
func New(size int) (keyset.LookupCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	c := &lookupCache{capacity: size}
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(string, domain.Membership) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = cache
	return c, nil
}

// Get looks up a membership by key, counting hits and misses.
func (c *lookupCache) Get(key string) (domain.Membership, bool) {
	if v, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return v, true
	}
	c.misses.Add(1)
	return domain.Membership{}, false
}

func (c *lookupCache) Put(key string, m domain.Membership) { c.lru.Add(key, m) }

func (c *lookupCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *lookupCache) Purge() { c.lru.Purge() }

func (c *lookupCache) Stats() keyset.CacheStats {
	return keyset.CacheStats{
		Capacity:  c.capacity,
		Size:      c.lru.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (d *disabledCache) Get(string) (domain.Membership, bool) { return domain.Membership{}, false }
func (d *disabledCache) Put(string, domain.Membership)        {}
func (d *disabledCache) Len() int                             { return 0 }
func (d *disabledCache) Purge()                               {}
func (d *disabledCache) Stats() keyset.CacheStats             { return keyset.CacheStats{} }

var _ keyset.LookupCache = (*lookupCache)(nil)
var _ keyset.LookupCache = (*disabledCache)(nil)
