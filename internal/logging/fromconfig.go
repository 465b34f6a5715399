package logging

import (
	"log/slog"
	"path/filepath"

	"satchel/internal/config"
)

// NewFromConfig creates a logger using application config defaults. When a
// state directory is configured the daemon log is appended there alongside
// stdout.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "auto"})
	}

	outputs := []string{"stdout"}
	if cfg.Daemon.StateDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Daemon.StateDir, "satchel.log"))
	}

	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}
