package bitstore

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// dense stores every bit in a word slice. Suited to filters that will be
// more than a few percent full, which is every correctly sized filter.
type dense struct {
	n    uint64
	bits *bitset.BitSet
}

// NewDense returns a word-backed Store of n zero bits.
func NewDense(n uint64) Store {
	return &dense{n: n, bits: bitset.New(uint(n))}
}

func (d *dense) Len() uint64 { return d.n }

// Set marks bit i. bitset.Set grows the set on out-of-range writes,
// so the bound is checked here first.
func (d *dense) Set(i uint64) {
	checkIndex(i, d.n)
	d.bits.Set(uint(i))
}

func (d *dense) Test(i uint64) bool {
	checkIndex(i, d.n)
	return d.bits.Test(uint(i))
}

func (d *dense) Count() uint64 { return uint64(d.bits.Count()) }

func (d *dense) Ones() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
			if !yield(uint64(i)) {
				return
			}
		}
	}
}
