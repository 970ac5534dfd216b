package filter

import (
	"testing"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/stretchr/testify/assert"
)

func TestSize_CommonCases(t *testing.T) {
	// n=11, p=1e-7 -> the 370-bit, 23-hash configuration (within rounding)
	m, k := Size(11, 1e-7)
	assert.InDelta(t, 370, float64(m), 1)
	assert.Equal(t, uint64(23), k)

	// n=1, p=1% -> m≈10, k≈7
	m, k = Size(1, 0.01)
	assert.GreaterOrEqual(t, m, uint64(10))
	assert.Equal(t, uint64(7), k)

	// n=1e6, p=1% -> m≈9.585e6 bits
	m, k = Size(1_000_000, 0.01)
	assert.InDelta(t, 9_585_059, float64(m), 2)
	assert.Equal(t, uint64(7), k)

	// p=0.5 -> a single hash
	_, k = Size(10_000, 0.5)
	assert.Equal(t, uint64(1), k)
}

func TestSize_ClampingAndDefaults(t *testing.T) {
	m, k := Size(0, 0)
	assert.NotZero(t, m)
	assert.NotZero(t, k)

	m1, k1 := Size(100, 1.0)
	m2, k2 := Size(100, DefaultFPRate)
	assert.Equal(t, m2, m1)
	assert.Equal(t, k2, k1)
}

// The bit count must agree with the bits-and-blooms estimator; its k rounds up
// where ours rounds to nearest, so k may differ by one.
func TestSize_AgreesWithBitsAndBlooms(t *testing.T) {
	cases := []struct {
		n uint64
		p float64
	}{
		{11, 0.1}, {11, 1e-7}, {1000, 0.01}, {50_000, 0.001}, {1_000_000, 0.05},
	}
	for _, c := range cases {
		m, k := Size(c.n, c.p)
		bm, bk := bitsbloom.EstimateParameters(uint(c.n), c.p)
		assert.InDelta(t, float64(bm), float64(m), 1, "n=%d p=%g", c.n, c.p)
		assert.InDelta(t, float64(bk), float64(k), 1, "n=%d p=%g", c.n, c.p)
	}
}

func TestEstimateFalsePositiveRate(t *testing.T) {
	// m=53, k=3, n=11 -> (1 - e^(-33/53))^3 ≈ 0.0996
	assert.InDelta(t, 0.0996, EstimateFalsePositiveRate(53, 3, 11), 0.001)
	assert.Less(t, EstimateFalsePositiveRate(370, 23, 11), 1e-6)
	assert.Equal(t, 0.0, EstimateFalsePositiveRate(100, 3, 0))
	assert.Equal(t, 1.0, EstimateFalsePositiveRate(0, 3, 10))
	assert.InDelta(t, 0.01, EstimateFalsePositiveRate(9_585_059, 7, 1_000_000), 0.0005)
}

func TestOptimalHashCount(t *testing.T) {
	assert.Equal(t, uint64(3), OptimalHashCount(53, 11))
	assert.Equal(t, uint64(23), OptimalHashCount(370, 11))
	assert.Equal(t, uint64(1), OptimalHashCount(1, 100))
	assert.Equal(t, uint64(1), OptimalHashCount(10, 0))
}
