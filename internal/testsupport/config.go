package testsupport

import (
	"path/filepath"
	"testing"

	"mediasort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config whose status file lives in a unique temp
// directory per test, then applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Journal.StatusFile = filepath.Join(t.TempDir(), ".mediasort-status.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAssume sets the configured conflict auto-answer.
func WithAssume(choice string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Conflict.Assume = choice
	}
}

// WithStatusFile overrides the journal status file location.
func WithStatusFile(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.StatusFile = path
	}
}
