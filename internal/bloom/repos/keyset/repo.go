package keyset

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/common/utils"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

// repository implements Repository by composing a Store, a Bloom filter (via
// factory) and a LookupCache. Reads flow filter -> cache -> store; writes are
// atomic snapshot swaps.
type repository struct {
	mu         sync.RWMutex
	store      Store
	cache      LookupCache
	bloom      BloomFilter
	filterKeys uint64
	generation uint64 // bumped by every swap
	factory    BloomFactory
	fpRate     float64
	foldCase   bool
	logger     log.Logger

	lookups        atomic.Uint64
	filterNegative atomic.Uint64
	storeHits      atomic.Uint64
	storeMisses    atomic.Uint64
	staleWrites    atomic.Uint64
}

// Options configures NewRepository.
type Options struct {
	Store    Store
	Cache    LookupCache
	Factory  BloomFactory
	FPRate   float64 // target false-positive rate when (re)building the filter
	FoldCase bool    // lowercase keys before lookup
	Logger   log.Logger
}

// NewRepository constructs a Repository. No filter is loaded until UpdateAll
// or Reload runs; until then every lookup goes to the store.
func NewRepository(opts Options) Repository {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &repository{
		store:    opts.Store,
		cache:    opts.Cache,
		factory:  opts.Factory,
		fpRate:   opts.FPRate,
		foldCase: opts.FoldCase,
		logger:   logger.Named("keyset"),
	}
}

// Contains returns the membership of key.
// Policy: on store errors, report absent without caching the answer.
func (r *repository) Contains(key string) domain.Membership {
	r.lookups.Add(1)
	ck := utils.CanonicalKey(key, r.foldCase)
	// 1) checkFilter: early answer if definitely absent
	if !r.checkFilter(ck) {
		r.filterNegative.Add(1)
		return domain.Absent(ck, domain.SourceFilter)
	}
	// 2) checkCache
	if m, ok := r.checkCache(ck); ok {
		m.Source = domain.SourceCache
		return m
	}
	// 3) checkStore
	gen := r.currentGeneration()
	m, err := r.checkStore(ck)
	if err != nil {
		r.logger.Warn(map[string]any{"key": ck, "error": err}, "store_lookup_failed")
		return m
	}
	// 4) updateCache, unless a snapshot swap made the answer stale
	r.updateCache(ck, m, gen)
	return m
}

// UpdateAll performs an atomic snapshot update across store, filter and cache.
func (r *repository) UpdateAll(keys []domain.Key, version uint64, updatedUnix int64) error {
	// 1) Rebuild the persistent store first.
	if err := r.store.RebuildAll(keys, version, updatedUnix); err != nil {
		return fmt.Errorf("rebuild store: %w", err)
	}

	// 2) Build a fresh filter sized for the dataset.
	bf, err := r.factory.New(uint64(len(keys)), r.fpRate)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}
	for _, k := range keys {
		bf.Add(k.Bytes())
	}

	// 3) Swap filter and purge cache.
	r.swap(bf, uint64(len(keys)))
	r.logger.Info(map[string]any{
		"keys":    len(keys),
		"version": version,
		"fp_rate": r.fpRate,
	}, "keyset_updated")
	return nil
}

// Reload sizes a filter from the store's key count and fills it by walking
// the store. Used at startup when the store already holds a snapshot.
func (r *repository) Reload() error {
	st := r.store.Stats()
	bf, err := r.factory.New(st.Keys, r.fpRate)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}
	var n uint64
	if err := r.store.VisitKeys(func(key []byte) bool {
		bf.Add(key)
		n++
		return true
	}); err != nil {
		return fmt.Errorf("visit store keys: %w", err)
	}
	r.swap(bf, n)
	r.logger.Info(map[string]any{"keys": n, "version": st.Version}, "keyset_reloaded")
	return nil
}

func (r *repository) swap(bf BloomFilter, n uint64) {
	r.mu.Lock()
	r.bloom = bf
	r.filterKeys = n
	r.generation++
	r.cache.Purge()
	r.mu.Unlock()
}

// RepoStats snapshots counters and the underlying cache and store stats.
func (r *repository) RepoStats() RepoStats {
	r.mu.RLock()
	n := r.filterKeys
	r.mu.RUnlock()
	return RepoStats{
		Lookups:        r.lookups.Load(),
		FilterNegative: r.filterNegative.Load(),
		StoreHits:      r.storeHits.Load(),
		StoreMisses:    r.storeMisses.Load(),
		StaleWrites:    r.staleWrites.Load(),
		Cache:          r.cache.Stats(),
		Store:          r.store.Stats(),
		FilterKeys:     n,
	}
}

// checkFilter returns true if the store must be consulted (possibly present),
// or false if key is definitely absent. With no filter loaded, returns true.
func (r *repository) checkFilter(ck string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	return bf.Check([]byte(ck))
}

// checkCache returns a cached membership when present.
func (r *repository) checkCache(ck string) (domain.Membership, bool) {
	r.mu.RLock()
	m, ok := r.cache.Get(ck)
	r.mu.RUnlock()
	return m, ok
}

// checkStore consults the authoritative store. On error the returned
// membership is absent and must not be cached.
func (r *repository) checkStore(ck string) (domain.Membership, error) {
	origin, ok, err := r.store.Source(ck)
	if err != nil {
		return domain.Absent(ck, domain.SourceStore), err
	}
	if !ok {
		r.storeMisses.Add(1)
		return domain.Absent(ck, domain.SourceStore), nil
	}
	r.storeHits.Add(1)
	return domain.Membership{Present: true, Key: ck, Source: domain.SourceStore, Origin: origin}, nil
}

func (r *repository) currentGeneration() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// updateCache writes the final membership if no swap happened since gen was
// read. A swap purges the cache, so a late write would outlive its snapshot.
func (r *repository) updateCache(ck string, m domain.Membership, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != gen {
		r.staleWrites.Add(1)
		return
	}
	r.cache.Put(ck, m)
}
