package filter

import (
	"fmt"
	"testing"

	"github.com/haukened/rr-bloom/internal/bloom/core/bitstore"
	"github.com/haukened/rr-bloom/internal/bloom/core/hashing"
)

func benchMakeKeys(n int, prefix string) [][]byte {
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		out[i] = []byte(fmt.Sprintf("%s-%05d", prefix, i))
	}
	return out
}

func benchFilter(b *testing.B, n int, opts ...Option) (*Filter, [][]byte) {
	b.Helper()
	m, k := Size(uint64(n), 0.01)
	f, err := New(m, k, opts...)
	if err != nil {
		b.Fatal(err)
	}
	keys := benchMakeKeys(n, "present")
	for _, key := range keys {
		f.Add(key)
	}
	return f, keys
}

func BenchmarkFilter_Add(b *testing.B) {
	const n = 1000
	m, k := Size(n, 0.01)
	f, err := New(m, k)
	if err != nil {
		b.Fatal(err)
	}
	keys := benchMakeKeys(n, "add")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Add(keys[i%len(keys)])
	}
}

func BenchmarkFilter_CheckPositive(b *testing.B) {
	for _, backend := range []string{bitstore.BackendDense, bitstore.BackendSparse} {
		b.Run(backend, func(b *testing.B) {
			factory, _ := bitstore.ByName(backend)
			f, keys := benchFilter(b, 1000, WithStore(factory))

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = f.Check(keys[i%len(keys)])
			}
		})
	}
}

func BenchmarkFilter_CheckNegative(b *testing.B) {
	for _, name := range []string{hashing.XXHashMurmur3, hashing.XXHashFNV1a} {
		b.Run(name, func(b *testing.B) {
			pair, _ := hashing.ByName(name)
			f, _ := benchFilter(b, 1000, WithHasher(pair))
			absent := benchMakeKeys(1000, "absent")

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = f.Check(absent[i%len(absent)])
			}
		})
	}
}

// BenchmarkFilter_FalsePositiveRate reports the observed rate on a disjoint
// probe set as a custom metric.
func BenchmarkFilter_FalsePositiveRate(b *testing.B) {
	const n = 1000
	const trials = 100_000

	f, _ := benchFilter(b, n)
	probes := benchMakeKeys(trials, "probe")

	b.ResetTimer()
	var fp int
	for i := 0; i < b.N; i++ {
		fp = 0
		for _, p := range probes {
			if f.Check(p) {
				fp++
			}
		}
	}
	b.ReportMetric(float64(fp), "fp_count")
	b.ReportMetric(100*float64(fp)/trials, "fp_percent")
}
