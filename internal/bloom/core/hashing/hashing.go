// Package hashing derives the two base hashes that feed double hashing.
//
// A Pair holds two independent 64-bit hash functions. Any two fast,
// well-distributed, mutually uncorrelated functions will do; the choice is a
// tuning decision, not part of the filter contract.
package hashing

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"

	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

// Func is a deterministic 64-bit hash over raw bytes.
type Func func(data []byte) uint64

// Murmur3 is the 64-bit half of MurmurHash3 x64_128.
func Murmur3(data []byte) uint64 { return murmur3.Sum64(data) }

// XXHash is XXH64 with seed zero.
func XXHash(data []byte) uint64 { return xxhash.Sum64(data) }

// FNV1a is the 64-bit FNV-1a hash.
func FNV1a(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data) // never fails
	return h.Sum64()
}

// Pair is a hashing strategy: two distinct functions applied to the same input.
type Pair struct {
	name          string
	first, second Func
}

// NewPair builds a strategy from two hash functions.
func NewPair(name string, first, second Func) Pair {
	return Pair{name: name, first: first, second: second}
}

// Name identifies the strategy in logs and config.
func (p Pair) Name() string { return p.name }

// IsZero reports whether p is the zero Pair.
func (p Pair) IsZero() bool { return p.first == nil && p.second == nil }

// Sum returns (h1, h2) for data. A zero Pair falls back to Default.
func (p Pair) Sum(data []byte) (h1, h2 uint64) {
	if p.first == nil || p.second == nil {
		return Default().Sum(data)
	}
	return p.first(data), p.second(data)
}

// Strategy names accepted by ByName.
const (
	XXHashMurmur3 = "xxhash+murmur3"
	XXHashFNV1a   = "xxhash+fnv1a"
)

// Default pairs XXH64 (h1) with MurmurHash3 (h2).
func Default() Pair { return NewPair(XXHashMurmur3, XXHash, Murmur3) }

// ByName returns the registered strategy called name. Empty selects Default.
func ByName(name string) (Pair, error) {
	switch strings.ToLower(name) {
	case "", XXHashMurmur3:
		return Default(), nil
	case XXHashFNV1a:
		return NewPair(XXHashFNV1a, XXHash, FNV1a), nil
	default:
		return Pair{}, fmt.Errorf("%w: %q", domain.ErrUnknownHasher, name)
	}
}
