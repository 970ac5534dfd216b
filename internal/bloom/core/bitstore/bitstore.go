// Package bitstore provides the fixed-length, zero-initialized bit arrays that
// back a Bloom filter. Bits only ever transition from clear to set.
package bitstore

import (
	"fmt"
	"iter"
	"strings"

	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

// Store is a fixed-length bit array addressed by index in [0, Len()).
// Set and Test panic on out-of-range indices.
type Store interface {
	Len() uint64
	Set(i uint64)
	Test(i uint64) bool
	// Count returns the number of set bits.
	Count() uint64
	// Ones yields set bit positions in ascending order.
	Ones() iter.Seq[uint64]
}

// Factory allocates a Store of n zero bits.
type Factory func(n uint64) Store

// Backend names accepted by ByName.
const (
	BackendDense  = "dense"
	BackendSparse = "sparse"
)

// ByName returns the Factory registered under name.
func ByName(name string) (Factory, error) {
	switch strings.ToLower(name) {
	case BackendDense, "":
		return NewDense, nil
	case BackendSparse:
		return NewSparse, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, name)
	}
}

// Equal reports whether a and b have the same length and bit pattern,
// regardless of backend.
func Equal(a, b Store) bool {
	if a.Len() != b.Len() || a.Count() != b.Count() {
		return false
	}
	next, stop := iter.Pull(b.Ones())
	defer stop()
	for i := range a.Ones() {
		j, ok := next()
		if !ok || i != j {
			return false
		}
	}
	return true
}

func checkIndex(i, n uint64) {
	if i >= n {
		panic(fmt.Sprintf("bitstore: index %d out of range [0, %d)", i, n))
	}
}
