package domain

import "errors"

var (
	// ErrZeroBitLength is returned when a filter is constructed with no addressable bits.
	ErrZeroBitLength = errors.New("bloom: bit length must be greater than zero")

	// ErrZeroHashCount is returned when a filter is constructed with no probes per operation.
	ErrZeroHashCount = errors.New("bloom: hash count must be greater than zero")

	// ErrUnknownHasher is returned when a hash strategy name is not registered.
	ErrUnknownHasher = errors.New("bloom: unknown hasher")

	// ErrUnknownBackend is returned when a bit store backend name is not registered.
	ErrUnknownBackend = errors.New("bloom: unknown bit store backend")

	// ErrEmptyKey is returned when constructing a Key with an empty name.
	ErrEmptyKey = errors.New("keyset: key must not be empty")

	// ErrKeyTooLong is returned when a key exceeds MaxKeyLength bytes.
	ErrKeyTooLong = errors.New("keyset: key exceeds maximum length")

	// ErrEmptySource is returned when constructing a Key without a source identifier.
	ErrEmptySource = errors.New("keyset: key source must not be empty")
)
