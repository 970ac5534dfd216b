package keyset

// CacheStats reports lightweight cache metrics.
// All fields are best-effort snapshots and may be updated concurrently.
type CacheStats struct {
	Capacity  int    // configured capacity (0 for disabled cache)
	Size      int    // current number of entries
	Hits      uint64 // total cache hits since construction
	Misses    uint64 // total cache misses since construction
	Evictions uint64 // total evictions since construction
}

// StoreStats reports store metadata, read in a cheap read-only transaction.
type StoreStats struct {
	Keys        uint64 // number of stored keys
	Version     uint64 // snapshot version (0 if unknown)
	UpdatedUnix int64  // last updated unix time (0 if unknown)
}

// RepoStats exposes repository-level counters and underlying stats.
type RepoStats struct {
	Lookups        uint64 // total Contains calls
	FilterNegative uint64 // answered "absent" by the filter alone
	StoreHits      uint64 // store consulted and key present
	StoreMisses    uint64 // store consulted and key absent (filter false positive)
	StaleWrites    uint64 // cache writes dropped because a snapshot swap raced the lookup
	Cache          CacheStats
	Store          StoreStats
	FilterKeys     uint64 // keys loaded into the current filter
}
