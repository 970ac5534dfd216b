package filter

import "math"

// DefaultFPRate is used by Size when the requested rate is outside (0, 1).
const DefaultFPRate = 0.01

// Size returns the bit length m and hash count k for n expected elements at
// target false-positive rate p:
//
//	m = -(n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
//
// n = 0 is treated as 1 and results are clamped to at least 1.
func Size(n uint64, p float64) (m, k uint64) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = DefaultFPRate
	}
	ln2 := math.Ln2
	m = uint64(math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k = uint64(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return m, k
}

// EstimateFalsePositiveRate returns the asymptotic false-positive probability
// (1 - e^(-kn/m))^k of an m-bit, k-hash filter holding n elements.
func EstimateFalsePositiveRate(m, k, n uint64) float64 {
	if m == 0 {
		return 1
	}
	return math.Pow(1-math.Exp(-float64(k)*float64(n)/float64(m)), float64(k))
}

// OptimalHashCount returns the k that minimizes the false-positive rate for
// m bits and n elements, k ≈ (m/n) ln 2, at least 1.
func OptimalHashCount(m, n uint64) uint64 {
	if n == 0 {
		return 1
	}
	return uint64(math.Max(1, math.Round(float64(m)/float64(n)*math.Ln2)))
}
