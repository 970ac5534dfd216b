// Package keysource opens key list files, transparently decompressing them by
// extension, and loads many lists concurrently.
package keysource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/parsers"
)

// Compression identifies how a source file is encoded on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Detect maps a file extension to its Compression.
func Detect(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// readCloser closes the decoder before the underlying file.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens path and wraps it in the decompressor its extension calls for.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch Detect(path) {
	case CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	case CompressionLZ4:
		return &readCloser{Reader: lz4.NewReader(f), closers: []func() error{f.Close}}, nil
	default:
		return f, nil
	}
}

// LoadOptions configures LoadAll.
type LoadOptions struct {
	Parse       parsers.Options
	Logger      log.Logger
	Now         time.Time
	Concurrency int // max files parsed at once; <= 0 means unlimited
}

// LoadAll parses every path concurrently and merges the results in path
// order, dropping keys already seen in an earlier path. The first error
// cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, opts LoadOptions) ([]domain.Key, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	logger = logger.Named("keysource")

	results := make([][]domain.Key, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keys, err := loadOne(p, logger, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
			results[i] = keys
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	seen := make(map[string]struct{}, total)
	out := make([]domain.Key, 0, total)
	for _, r := range results {
		for _, k := range r {
			if _, ok := seen[k.Name]; ok {
				continue
			}
			seen[k.Name] = struct{}{}
			out = append(out, k)
		}
	}
	logger.Info(map[string]any{"sources": len(paths), "keys": len(out), "duplicates": total - len(out)}, "key_sources_loaded")
	return out, nil
}

func loadOne(path string, logger log.Logger, opts LoadOptions) ([]domain.Key, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	keys, err := parsers.ParseKeyList(rc, path, logger, opts.Now, opts.Parse)
	if err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{"path": path, "compression": string(Detect(path)), "keys": len(keys)}, "key_source_parsed")
	return keys, nil
}
