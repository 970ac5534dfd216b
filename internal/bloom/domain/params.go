package domain

// FilterParams are the two construction-time tuning knobs of a Bloom filter.
type FilterParams struct {
	BitLength uint64 // m: total addressable bits
	HashCount uint64 // k: probes per add/check
}

// Validate reports whether p can back a filter.
func (p FilterParams) Validate() error {
	if p.BitLength == 0 {
		return ErrZeroBitLength
	}
	if p.HashCount == 0 {
		return ErrZeroHashCount
	}
	return nil
}
