package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/haukened/rr-bloom/internal/bloom/common/clock"
	"github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/common/utils"
	"github.com/haukened/rr-bloom/internal/bloom/config"
	"github.com/haukened/rr-bloom/internal/bloom/core/bitstore"
	"github.com/haukened/rr-bloom/internal/bloom/core/hashing"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/filter"
	"github.com/haukened/rr-bloom/internal/bloom/gateways/keysource"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/bloom"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/bolt"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/lru"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset/parsers"
	"github.com/haukened/rr-bloom/internal/bloom/services/evaluate"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-bloom"
)

// Application holds all the components of the membership service
type Application struct {
	config *config.AppConfig
	clock  clock.Clock
	logger log.Logger
	hasher hashing.Pair
	bits   bitstore.Factory
	store  keyset.Store
	repo   keyset.Repository
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":     version,
		"env":         cfg.Env,
		"log_level":   cfg.LogLevel,
		"store_path":  cfg.StorePath,
		"cache_size":  cfg.CacheSize,
		"fp_rate":     cfg.FPRate,
		"backend":     cfg.Backend,
		"hasher":      cfg.Hasher,
		"key_files":   cfg.KeyFiles,
		"probe_files": cfg.ProbeFiles,
	}, "Starting "+appName)

	app, err := buildApplication(cfg, clock.RealClock{}, log.GetLogger())
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn(map[string]any{"error": err}, "Error closing store")
		}
	}()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error(map[string]any{"error": err}, "Run failed")
		return
	}

	log.Info(nil, appName+" stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig, clk clock.Clock, logger log.Logger) (*Application, error) {
	hasher, err := hashing.ByName(cfg.Hasher)
	if err != nil {
		return nil, err
	}
	bits, err := bitstore.ByName(cfg.Backend)
	if err != nil {
		return nil, err
	}

	store, err := bolt.New(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}

	var fixed domain.FilterParams
	if cfg.FixedParams() {
		fixed = domain.FilterParams{BitLength: cfg.BitLength, HashCount: cfg.HashCount}
	}

	repo := keyset.NewRepository(keyset.Options{
		Store:    store,
		Cache:    cache,
		Factory:  bloom.NewFactory(bloom.FactoryOptions{Hasher: hasher, Store: bits, Fixed: fixed}),
		FPRate:   cfg.FPRate,
		FoldCase: cfg.FoldCase,
		Logger:   logger,
	})

	logger.Info(map[string]any{
		"store_path": cfg.StorePath,
		"cache_size": cfg.CacheSize,
		"fixed":      cfg.FixedParams(),
	}, "Keyset repository configured")

	return &Application{
		config: cfg,
		clock:  clk,
		logger: logger,
		hasher: hasher,
		bits:   bits,
		store:  store,
		repo:   repo,
	}, nil
}

// Run loads the key set, evaluates it against probe files when configured,
// then answers queries from in until EOF or cancellation.
func (app *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := app.Load(ctx); err != nil {
		return err
	}
	if len(app.config.ProbeFiles) > 0 {
		if _, err := app.Evaluate(ctx); err != nil {
			return err
		}
	}
	return app.Serve(ctx, in, out)
}

// Close releases the store.
func (app *Application) Close() error {
	return app.store.Close()
}

// Load rebuilds the store from the configured key files, or reloads the filter
// from the existing store snapshot when none are configured.
func (app *Application) Load(ctx context.Context) error {
	if len(app.config.KeyFiles) == 0 {
		if err := app.repo.Reload(); err != nil {
			return fmt.Errorf("reload keyset: %w", err)
		}
		return nil
	}

	now := app.clock.Now()
	keys, err := app.loadFiles(ctx, app.config.KeyFiles)
	if err != nil {
		return err
	}
	next := app.store.Stats().Version + 1
	if err := app.repo.UpdateAll(keys, next, now.Unix()); err != nil {
		return fmt.Errorf("update keyset: %w", err)
	}
	return nil
}

// Evaluate measures the false-positive rate of a filter built from the stored
// keys against the configured probe files, alongside the reference filter.
func (app *Application) Evaluate(ctx context.Context) ([]evaluate.Report, error) {
	probes, err := app.loadFiles(ctx, app.config.ProbeFiles)
	if err != nil {
		return nil, err
	}

	var known [][]byte
	members := make(map[string]struct{})
	if err := app.store.VisitKeys(func(key []byte) bool {
		known = append(known, key)
		members[string(key)] = struct{}{}
		return true
	}); err != nil {
		return nil, fmt.Errorf("visit store keys: %w", err)
	}
	if len(known) == 0 {
		app.logger.Warn(nil, "Store is empty, skipping evaluation")
		return nil, nil
	}

	unseen := make([][]byte, 0, len(probes))
	overlap := 0
	for _, p := range probes {
		if _, ok := members[p.Name]; ok {
			overlap++
			continue
		}
		unseen = append(unseen, p.Bytes())
	}
	if overlap > 0 {
		app.logger.Warn(map[string]any{"overlap": overlap}, "Probe keys present in store were skipped")
	}

	params := domain.FilterParams{BitLength: app.config.BitLength, HashCount: app.config.HashCount}
	if !app.config.FixedParams() {
		params.BitLength, params.HashCount = filter.Size(uint64(len(known)), app.config.FPRate)
	}

	return evaluate.Compare(app.logger, params, known, unseen,
		filter.WithHasher(app.hasher), filter.WithStore(app.bits))
}

// Serve answers one query per line of in, writing
// "key<TAB>present|absent<TAB>layer<TAB>origin" to out, where origin is the
// key file a present key was loaded from and "-" otherwise. Blank lines are
// ignored.
func (app *Application) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- sc.Err()
	}()

	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		select {
		case <-ctx.Done():
			app.logStats()
			return nil
		case line, ok := <-lines:
			if !ok {
				app.logStats()
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read queries: %w", err)
				}
				return nil
			}
			if err := app.answer(w, line); err != nil {
				return err
			}
		}
	}
}

func (app *Application) answer(w *bufio.Writer, line string) error {
	if utils.CanonicalKey(line, false) == "" {
		return nil
	}
	m := app.repo.Contains(line)
	state, origin := "absent", "-"
	if m.Present {
		state = "present"
		if m.Origin != "" {
			origin = m.Origin
		}
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Key, state, m.Source, origin); err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	return w.Flush()
}

func (app *Application) loadFiles(ctx context.Context, paths []string) ([]domain.Key, error) {
	keys, err := keysource.LoadAll(ctx, paths, keysource.LoadOptions{
		Parse:       parsers.Options{FoldCase: app.config.FoldCase, KeepHash: app.config.KeepHash},
		Logger:      app.logger,
		Now:         app.clock.Now(),
		Concurrency: app.config.LoadConcurrency,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("load key files: %w", err)
	}
	return keys, nil
}

func (app *Application) logStats() {
	st := app.repo.RepoStats()
	app.logger.Info(map[string]any{
		"lookups":         st.Lookups,
		"filter_negative": st.FilterNegative,
		"store_hits":      st.StoreHits,
		"store_misses":    st.StoreMisses,
		"cache_hits":      st.Cache.Hits,
		"cache_misses":    st.Cache.Misses,
		"filter_keys":     st.FilterKeys,
		"store_version":   st.Store.Version,
	}, "Query session finished")
}
