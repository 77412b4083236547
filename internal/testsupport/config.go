package testsupport

import (
	"path/filepath"
	"testing"

	"captionsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp cache directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithFastTimings shrinks debounce and tick intervals so loop tests finish
// quickly.
func WithFastTimings() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Engine.DebounceMs = 10
		cfg.Engine.RenderTickMs = 10
	}
}

// WithTranslator enables the translator against the given endpoint.
func WithTranslator(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Translator.Enabled = true
		cfg.Translator.BaseURL = baseURL
	}
}
