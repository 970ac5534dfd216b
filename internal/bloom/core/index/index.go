// Package index expands two base hashes into k bit positions using
// Kirsch-Mitzenmacher double hashing:
//
//	g_i = (h1 + i*h2) mod m,  i = 0..k-1
//
// "Less Hashing, Same Performance: Building a Better Bloom Filter" (2006).
//
// The multiply and add are performed in uint64 and wrap modulo 2^64, which is
// the intended arithmetic. Positions may repeat; callers tolerate duplicates.
package index

import "iter"

// At returns the i-th probe position in [0, m). m must be non-zero.
func At(h1, h2, m, i uint64) uint64 {
	return (h1 + i*h2) % m
}

// Sequence lazily yields the k probe positions for (h1, h2) in order
// i = 0..k-1. The returned sequence can be ranged over any number of times.
// It panics if m is zero.
func Sequence(h1, h2, m, k uint64) iter.Seq[uint64] {
	if m == 0 {
		panic("index: zero bit length")
	}
	return func(yield func(uint64) bool) {
		g := h1
		for i := uint64(0); i < k; i++ {
			if !yield(g % m) {
				return
			}
			g += h2
		}
	}
}

// Fill writes the k probe positions into dst, reusing its capacity, and
// returns the filled slice.
func Fill(dst []uint64, h1, h2, m, k uint64) []uint64 {
	dst = dst[:0]
	for g := range Sequence(h1, h2, m, k) {
		dst = append(dst, g)
	}
	return dst
}
