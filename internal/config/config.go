package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Vault contains the vault root and watcher exclusions.
type Vault struct {
	Root        string   `toml:"root"`
	IgnoreGlobs []string `toml:"ignore_globs"`
}

// DailyNotes configures how calendar dates map to note paths.
type DailyNotes struct {
	RootDir      string `toml:"root_dir"`
	DateFormat   string `toml:"date_format"`
	BoundaryHour int    `toml:"boundary_hour"`
	Structured   bool   `toml:"structured"`
	TemplateFile string `toml:"template_file"`
}

// Attachments configures ingestion behavior for dropped files.
type Attachments struct {
	Scenario              string `toml:"scenario"`
	ImageSubDir           string `toml:"image_sub_dir"`
	VideoSubDir           string `toml:"video_sub_dir"`
	OtherFilesSubDir      string `toml:"other_files_sub_dir"`
	MaxImageSizeKB        int    `toml:"max_image_size_kb"`
	PreserveMetadata      bool   `toml:"preserve_metadata"`
	KeepImageOriginalName bool   `toml:"keep_image_original_name"`
	ImageDefaultName      string `toml:"image_default_name"`
	ResizeWidth           int    `toml:"resize_width"`
}

// Summary configures the summary page aggregating recent daily notes.
type Summary struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
	Days    int    `toml:"days"`
}

// Compression configures the external image compression tool.
type Compression struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Daemon contains watcher and sweep timing.
type Daemon struct {
	DebounceMillis       int    `toml:"debounce_ms"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
	StateDir             string `toml:"state_dir"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	MinLevel       string `toml:"min_level"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Satchel.
//
// Configuration sections by subsystem:
//   - Vault: vault root directory and watcher ignore globs
//   - DailyNotes: date format, layout, and day-boundary rules
//   - Attachments: handling mode, subdirectories, naming, size limits
//   - Summary: summary page aggregating recent daily notes
//   - Compression: external image compression tool
//   - Daemon: watcher debounce, sweep interval, state directory
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Vault         Vault         `toml:"vault"`
	DailyNotes    DailyNotes    `toml:"daily_notes"`
	Attachments   Attachments   `toml:"attachments"`
	Summary       Summary       `toml:"summary"`
	Compression   Compression   `toml:"compression"`
	Daemon        Daemon        `toml:"daemon"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/satchel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("satchel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Vault.Root, c.Daemon.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
