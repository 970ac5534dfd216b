package bitstore

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// sparse keeps only set positions in a compressed roaring bitmap. Memory grows
// with the number of set bits instead of the declared length, which suits very
// large m with few insertions.
type sparse struct {
	n    uint64
	bits *roaring64.Bitmap
}

// NewSparse returns a roaring-backed Store of n zero bits.
func NewSparse(n uint64) Store {
	return &sparse{n: n, bits: roaring64.New()}
}

func (s *sparse) Len() uint64 { return s.n }

func (s *sparse) Set(i uint64) {
	checkIndex(i, s.n)
	s.bits.Add(i)
}

func (s *sparse) Test(i uint64) bool {
	checkIndex(i, s.n)
	return s.bits.Contains(i)
}

func (s *sparse) Count() uint64 { return s.bits.GetCardinality() }

func (s *sparse) Ones() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := s.bits.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
