// Package filter implements a Bloom filter: a fixed-size bit array probed at k
// positions per value, answering "possibly present" or "definitely absent".
//
// A Filter is a plain mutable value. Add needs exclusive access; Check may run
// concurrently with other Checks but not with Add. Wrap it in Locked when it is
// shared between goroutines.
package filter

import (
	"fmt"
	"iter"

	"github.com/haukened/rr-bloom/internal/bloom/core/bitstore"
	"github.com/haukened/rr-bloom/internal/bloom/core/hashing"
	"github.com/haukened/rr-bloom/internal/bloom/core/index"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

// Filter is a Bloom filter over byte keys. Bits are only ever set, never
// cleared, so a positive Check stays positive for the life of the filter.
type Filter struct {
	bits   bitstore.Store
	k      uint64
	hasher hashing.Pair
}

// Option customizes a Filter at construction.
type Option func(*options)

type options struct {
	hasher hashing.Pair
	store  bitstore.Factory
}

// WithHasher selects the base hash strategy. Filters built with different
// strategies are not comparable. A zero Pair keeps the default.
func WithHasher(p hashing.Pair) Option {
	return func(o *options) {
		if !p.IsZero() {
			o.hasher = p
		}
	}
}

// WithStore selects the bit store backend.
func WithStore(f bitstore.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.store = f
		}
	}
}

// New allocates a filter of bitLength zero bits probed hashCount times per
// operation. Both must be positive.
func New(bitLength, hashCount uint64, opts ...Option) (*Filter, error) {
	p := domain.FilterParams{BitLength: bitLength, HashCount: hashCount}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("new filter (m=%d, k=%d): %w", bitLength, hashCount, err)
	}
	o := options{hasher: hashing.Default(), store: bitstore.NewDense}
	for _, opt := range opts {
		opt(&o)
	}
	return &Filter{bits: o.store(bitLength), k: hashCount, hasher: o.hasher}, nil
}

// NewWithParams is New taking a FilterParams.
func NewWithParams(p domain.FilterParams, opts ...Option) (*Filter, error) {
	return New(p.BitLength, p.HashCount, opts...)
}

// Add sets the k bits for key. Adding the same key again changes nothing.
func (f *Filter) Add(key []byte) {
	for g := range f.indices(key) {
		f.bits.Set(g)
	}
}

// Check reports whether every one of the k bits for key is set. False means
// key was definitely never added; true means it possibly was.
func (f *Filter) Check(key []byte) bool {
	for g := range f.indices(key) {
		if !f.bits.Test(g) {
			return false
		}
	}
	return true
}

func (f *Filter) indices(key []byte) iter.Seq[uint64] {
	h1, h2 := f.hasher.Sum(key)
	return index.Sequence(h1, h2, f.bits.Len(), f.k)
}

// BitLength returns m.
func (f *Filter) BitLength() uint64 { return f.bits.Len() }

// HashCount returns k.
func (f *Filter) HashCount() uint64 { return f.k }

// Params returns m and k together.
func (f *Filter) Params() domain.FilterParams {
	return domain.FilterParams{BitLength: f.BitLength(), HashCount: f.k}
}

// Count returns the number of set bits.
func (f *Filter) Count() uint64 { return f.bits.Count() }

// FillRatio is the fraction of bits set, in [0, 1].
func (f *Filter) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.bits.Len())
}

// SetBits yields the positions of set bits in ascending order.
func (f *Filter) SetBits() iter.Seq[uint64] { return f.bits.Ones() }

// Equal reports whether o has the same parameters, hash strategy and bit
// pattern as f. The storage backend does not matter.
func (f *Filter) Equal(o *Filter) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.k == o.k &&
		f.hasher.Name() == o.hasher.Name() &&
		bitstore.Equal(f.bits, o.bits)
}
