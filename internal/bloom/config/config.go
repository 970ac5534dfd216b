package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every environment variable read by Load.
const envPrefix = "RRBLOOM_"

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// StorePath is the bbolt database holding the authoritative key set.
	StorePath string `koanf:"store_path" validate:"required"`

	// CacheSize is the lookup cache capacity; 0 disables the cache.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// FPRate is the target false-positive rate used to size the filter.
	FPRate float64 `koanf:"fp_rate" validate:"fp_rate"`

	// BitLength and HashCount pin the filter size. Both or neither must be set;
	// when unset the filter is sized from the key count and FPRate.
	BitLength uint64 `koanf:"bit_length" validate:"required_with=HashCount"`
	HashCount uint64 `koanf:"hash_count" validate:"required_with=BitLength"`

	// Backend selects the bit store: "dense" or "sparse".
	Backend string `koanf:"backend" validate:"required,oneof=dense sparse"`

	// Hasher selects the base hash pair.
	Hasher string `koanf:"hasher" validate:"required,oneof=xxhash+murmur3 xxhash+fnv1a"`

	// FoldCase lowercases keys on load and lookup.
	FoldCase bool `koanf:"fold_case"`

	// KeepHash treats '#' as key data instead of starting a comment.
	KeepHash bool `koanf:"keep_hash"`

	// KeyFiles are key lists to load into the store at startup. Empty keeps
	// the existing store snapshot.
	KeyFiles []string `koanf:"key_files" validate:"omitempty,dive,required"`

	// ProbeFiles are lists of keys known to be absent, used to measure the
	// false-positive rate at startup.
	ProbeFiles []string `koanf:"probe_files" validate:"omitempty,dive,required"`

	// LoadConcurrency bounds how many key files are parsed at once.
	LoadConcurrency int `koanf:"load_concurrency" validate:"gte=1,lte=64"`
}

// DEFAULT_APP_CONFIG defines the default application configuration.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:             "prod",
	LogLevel:        "info",
	StorePath:       "/var/lib/rr-bloom/keys.db",
	CacheSize:       10000,
	FPRate:          0.01,
	Backend:         "dense",
	Hasher:          "xxhash+murmur3",
	LoadConcurrency: 4,
}

// validFPRate accepts rates strictly between 0 and 1.
func validFPRate(fl validator.FieldLevel) bool {
	p := fl.Field().Float()
	return p > 0 && p < 1
}

// envLoader loads environment variables with the prefix "RRBLOOM_".
// Keys are lowercased with the prefix removed; values containing commas or
// spaces become lists. Replaceable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "fp_rate" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("fp_rate", validFPRate)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// FixedParams reports whether the filter size is pinned by configuration.
func (c *AppConfig) FixedParams() bool {
	return c.BitLength > 0 && c.HashCount > 0
}
