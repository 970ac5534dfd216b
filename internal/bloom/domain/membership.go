package domain

// MembershipSource records which layer of the keyset pipeline produced an answer.
type MembershipSource uint8

const (
	// SourceNone means no layer answered (zero value).
	SourceNone MembershipSource = iota
	// SourceFilter means the Bloom filter reported the key as definitely absent.
	SourceFilter
	// SourceCache means the answer came from the lookup cache.
	SourceCache
	// SourceStore means the authoritative store was consulted.
	SourceStore
)

// String returns the lowercase name of the source.
func (s MembershipSource) String() string {
	switch s {
	case SourceFilter:
		return "filter"
	case SourceCache:
		return "cache"
	case SourceStore:
		return "store"
	default:
		return "none"
	}
}

// Membership is the outcome of asking a keyset whether it holds a key.
type Membership struct {
	Present bool
	Key     string
	Source  MembershipSource
	// Origin names the key list a present key was loaded from.
	Origin string
}

// IsPresent is a convenience accessor.
func (m Membership) IsPresent() bool { return m.Present }

// Absent returns a not-present membership attributed to src.
func Absent(key string, src MembershipSource) Membership {
	return Membership{Present: false, Key: key, Source: src}
}
