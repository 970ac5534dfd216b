package utils

import "strings"

// CanonicalKey returns a key in canonical form:
// - Leading byte-order mark removed
// - Trimmed of surrounding whitespace
// - Lowercased when fold is true
//
// Keys are otherwise opaque; callers that need exact-byte semantics pass fold=false.
func CanonicalKey(key string, fold bool) string {
	key = strings.TrimPrefix(key, "\uFEFF")
	key = strings.TrimSpace(key)
	if fold {
		key = strings.ToLower(key)
	}
	return key
}
