// Package testsupport provides shared fixtures for animelens tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"animelens/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTraceBaseURL points the search client at a test server.
func WithTraceBaseURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Trace.BaseURL = baseURL
	}
}

// WithAniListBaseURL points the catalog client at a test server.
func WithAniListBaseURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.AniList.BaseURL = baseURL
	}
}

// WithNtfyTopic enables notifications against a test endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
