package keyset

import "github.com/haukened/rr-bloom/internal/bloom/domain"

// BloomFilter is the minimal interface the repository needs from a filter.
type BloomFilter interface {
	Add(key []byte)
	Check(key []byte) bool
}

// BloomFactory builds a filter sized for n keys at false-positive rate p.
type BloomFactory interface {
	New(n uint64, p float64) (BloomFilter, error)
}

// LookupCache caches memberships by canonical key with basic metrics.
type LookupCache interface {
	Get(key string) (domain.Membership, bool)
	Put(key string, m domain.Membership)
	Len() int
	Purge()
	Stats() CacheStats
}

// Store is the authoritative, persistent set of keys.
//   - Source: exact presence of a key and the list it was loaded from
//   - RebuildAll: atomically replace every key and the snapshot metadata
//   - VisitKeys: iterate stored keys in byte order; stop when visit returns false
type Store interface {
	Source(key string) (source string, ok bool, err error)
	RebuildAll(keys []domain.Key, version uint64, updatedUnix int64) error
	VisitKeys(visit func(key []byte) bool) error
	Stats() StoreStats
	Close() error
}

// Repository is the composition layer that wires filter -> cache -> store.
type Repository interface {
	// Contains reports whether key is in the set and which layer answered.
	Contains(key string) domain.Membership
	// UpdateAll rebuilds the store, refreshes the filter and clears the cache.
	UpdateAll(keys []domain.Key, version uint64, updatedUnix int64) error
	// Reload rebuilds the filter from the store's current contents.
	Reload() error
	RepoStats() RepoStats
}
