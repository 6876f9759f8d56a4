// Package testsupport provides shared fixtures for package tests: temp-dir
// backed configs and pre-opened inbox stores with cleanup registered.
package testsupport

import (
	"path/filepath"
	"testing"

	"pressmark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Provider.Token = "test"
	cfg.Provider.BaseURL = "https://discogs.invalid"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProviderToken sets the provider token on the test config.
func WithProviderToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Provider.Token = token
	}
}

// WithBatchSize overrides the engine batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Resolver.BatchSize = size
	}
}
