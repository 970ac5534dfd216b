package filter

import (
	"encoding/binary"
	"math"
)

// Encoder turns a value into the bytes that get hashed. It must be
// deterministic: equal values must always encode to equal bytes.
type Encoder[T any] func(v T) []byte

// Keyer is implemented by types that know their own filter key.
type Keyer interface {
	BloomKey() []byte
}

// StringKey encodes a string as its UTF-8 bytes.
func StringKey(s string) []byte { return []byte(s) }

// BytesKey uses b as-is.
func BytesKey(b []byte) []byte { return b }

// Uint64Key encodes v as 8 big-endian bytes.
func Uint64Key(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

// Int64Key encodes v as 8 big-endian two's complement bytes.
func Int64Key(v int64) []byte { return Uint64Key(uint64(v)) }

// IntKey encodes v as an int64.
func IntKey(v int) []byte { return Int64Key(int64(v)) }

// Float64Key encodes the IEEE-754 bits of v. 0.0 and -0.0 encode differently.
func Float64Key(v float64) []byte { return Uint64Key(math.Float64bits(v)) }

// KeyerKey encodes any Keyer via its BloomKey method.
func KeyerKey[T Keyer](v T) []byte { return v.BloomKey() }

// Set is a typed view of a Filter.
type Set[T any] struct {
	f   *Filter
	enc Encoder[T]
}

// NewSet wraps f so values of T are encoded with enc before hashing.
func NewSet[T any](f *Filter, enc Encoder[T]) *Set[T] {
	return &Set[T]{f: f, enc: enc}
}

// NewStringSet is shorthand for a string-keyed Set.
func NewStringSet(f *Filter) *Set[string] { return NewSet(f, StringKey) }

// Add inserts v.
func (s *Set[T]) Add(v T) { s.f.Add(s.enc(v)) }

// Check reports whether v is possibly present.
func (s *Set[T]) Check(v T) bool { return s.f.Check(s.enc(v)) }

// Filter returns the underlying filter.
func (s *Set[T]) Filter() *Filter { return s.f }
