package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"satchel/internal/compress"
	"satchel/internal/config"
	"satchel/internal/history"
	"satchel/internal/ingest"
	"satchel/internal/logging"
	"satchel/internal/notify"
	"satchel/internal/vault"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// buildPipeline assembles a one-shot pipeline for CLI commands that act on
// the vault directly. The caller must close the returned store.
func (c *commandContext) buildPipeline() (*ingest.Pipeline, *history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	v, err := vault.New(cfg.Vault.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault: %w", err)
	}

	store, err := c.openHistory()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	pipeline := ingest.New(cfg, v, ingest.Deps{
		Compressor: compress.New(ingest.CompressorOptions(cfg)),
		Notifier:   notify.NewService(cfg),
		History:    store,
		Logger:     logger,
	})
	return pipeline, store, nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(filepath.Join(cfg.Daemon.StateDir, "satchel.db"))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}
