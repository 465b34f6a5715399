package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"satchel/internal/compress"
	"satchel/internal/config"
	"satchel/internal/daemon"
	"satchel/internal/history"
	"satchel/internal/ingest"
	"satchel/internal/notify"
	"satchel/internal/vault"
)

// buildDaemon wires the vault, history store, and ingest pipeline into a
// daemon ready to start.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	v, err := vault.New(cfg.Vault.Root)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	store, err := history.Open(historyDBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	pipeline := ingest.New(cfg, v, ingest.Deps{
		Compressor: compress.New(ingest.CompressorOptions(cfg)),
		Notifier:   notify.NewService(cfg),
		History:    store,
		Logger:     logger,
	})

	d, err := daemon.New(cfg, v, pipeline, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return d, nil
}

func historyDBPath(cfg *config.Config) string {
	return filepath.Join(cfg.Daemon.StateDir, "satchel.db")
}
