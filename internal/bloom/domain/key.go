package domain

import (
	"fmt"
	"time"
)

// MaxKeyLength bounds the byte length of a single key accepted into a keyset.
const MaxKeyLength = 1024

// Key is a single member of a keyset as loaded from a source list.
// Pure value type, no external dependencies.
type Key struct {
	Name    string    // canonical key bytes as a string
	Source  string    // source identifier (file path or list name)
	AddedAt time.Time // when the key was parsed
}

// NewKey validates and constructs a Key.
func NewKey(name, source string, addedAt time.Time) (Key, error) {
	if name == "" {
		return Key{}, ErrEmptyKey
	}
	if len(name) > MaxKeyLength {
		return Key{}, fmt.Errorf("%w: %d > %d", ErrKeyTooLong, len(name), MaxKeyLength)
	}
	if source == "" {
		return Key{}, ErrEmptySource
	}
	return Key{Name: name, Source: source, AddedAt: addedAt}, nil
}

// Bytes returns the key as the byte slice fed to the filter and store.
func (k Key) Bytes() []byte { return []byte(k.Name) }
