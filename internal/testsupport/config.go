// Package testsupport provides builders shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"satchel/internal/config"
	"satchel/internal/vault"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Vault.Root = filepath.Join(base, "vault")
	cfg.Daemon.StateDir = filepath.Join(base, "state")
	cfg.DailyNotes.RootDir = "Daily Notes"
	cfg.Attachments.MaxImageSizeKB = -1
	cfg.Attachments.ResizeWidth = -1
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithScenario overrides the attachment handling mode.
func WithScenario(mode config.Mode) ConfigOption {
	return func(c *config.Config) {
		c.Attachments.Scenario = string(mode)
	}
}

// WithFlatLayout disables the year/month folder structure.
func WithFlatLayout() ConfigOption {
	return func(c *config.Config) {
		c.DailyNotes.Structured = false
	}
}

// WithKeepImageOriginalName switches image naming to keep original names.
func WithKeepImageOriginalName() ConfigOption {
	return func(c *config.Config) {
		c.Attachments.KeepImageOriginalName = true
	}
}

// NewVault opens the configured vault root, which NewConfig has created.
func NewVault(t testing.TB, cfg *config.Config) *vault.Vault {
	t.Helper()
	v, err := vault.New(cfg.Vault.Root)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	return v
}
