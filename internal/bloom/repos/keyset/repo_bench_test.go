package keyset_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/bloom"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/bolt"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/lru"
)

func repoBenchKeys(n int, prefix string) []domain.Key {
	out := make([]domain.Key, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Key{
			Name:    fmt.Sprintf("%s-%05d", prefix, i),
			Source:  "bench",
			AddedAt: time.Unix(1, 0),
		})
	}
	return out
}

func buildBenchRepo(b *testing.B, cacheSize int, keys []domain.Key) keyset.Repository {
	b.Helper()
	store, err := bolt.New(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })
	cache, err := lru.New(cacheSize)
	if err != nil {
		b.Fatal(err)
	}
	repo := keyset.NewRepository(keyset.Options{
		Store:   store,
		Cache:   cache,
		Factory: bloom.NewFactory(bloom.FactoryOptions{}),
		FPRate:  0.01,
	})
	if err := repo.UpdateAll(keys, 1, 1); err != nil {
		b.Fatal(err)
	}
	return repo
}

func BenchmarkRepository_ContainsPresentCached(b *testing.B) {
	keys := repoBenchKeys(1000, "present")
	repo := buildBenchRepo(b, 2048, keys)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = repo.Contains(keys[i%len(keys)].Name)
	}
}

func BenchmarkRepository_ContainsPresentUncached(b *testing.B) {
	keys := repoBenchKeys(1000, "present")
	repo := buildBenchRepo(b, 0, keys)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = repo.Contains(keys[i%len(keys)].Name)
	}
}

func BenchmarkRepository_ContainsAbsent(b *testing.B) {
	repo := buildBenchRepo(b, 2048, repoBenchKeys(1000, "present"))
	absent := repoBenchKeys(1000, "absent")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = repo.Contains(absent[i%len(absent)].Name)
	}
}
