package bloom

import (
	"github.com/haukened/rr-bloom/internal/bloom/core/bitstore"
	"github.com/haukened/rr-bloom/internal/bloom/core/hashing"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/filter"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset"
)

// factory implements keyset.BloomFactory on top of filter.Filter.
type factory struct {
	hasher hashing.Pair
	store  bitstore.Factory
	fixed  domain.FilterParams
}

// FactoryOptions selects hashing and storage for every filter the factory builds.
// When Fixed is non-zero its parameters are used as-is instead of sizing from
// capacity and FP rate.
type FactoryOptions struct {
	Hasher hashing.Pair
	Store  bitstore.Factory
	Fixed  domain.FilterParams
}

// NewFactory returns a BloomFactory that sizes filters from capacity and FP rate.
func NewFactory(opts FactoryOptions) keyset.BloomFactory {
	return factory{hasher: opts.Hasher, store: opts.Store, fixed: opts.Fixed}
}

// New constructs a filter sized for capacity keys at fpRate, wrapped for
// concurrent use.
func (f factory) New(capacity uint64, fpRate float64) (keyset.BloomFilter, error) {
	p := f.fixed
	if p == (domain.FilterParams{}) {
		p.BitLength, p.HashCount = filter.Size(capacity, fpRate)
	}
	bf, err := filter.NewWithParams(p, filter.WithHasher(f.hasher), filter.WithStore(f.store))
	if err != nil {
		return nil, err
	}
	return filter.NewLocked(bf), nil
}

var _ keyset.BloomFilter = (*filter.Locked)(nil)
