package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeVault(); err != nil {
		return err
	}
	c.normalizeDailyNotes()
	c.normalizeAttachments()
	c.normalizeSummary()
	c.normalizeCompression()
	if err := c.normalizeDaemon(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeVault() error {
	var err error
	if c.Vault.Root, err = expandPath(c.Vault.Root); err != nil {
		return fmt.Errorf("vault.root: %w", err)
	}
	globs := make([]string, 0, len(c.Vault.IgnoreGlobs))
	for _, glob := range c.Vault.IgnoreGlobs {
		trimmed := strings.TrimSpace(glob)
		if trimmed == "" {
			continue
		}
		globs = append(globs, trimmed)
	}
	c.Vault.IgnoreGlobs = globs
	return nil
}

func (c *Config) normalizeDailyNotes() {
	c.DailyNotes.RootDir = strings.Trim(strings.TrimSpace(c.DailyNotes.RootDir), "/")
	if c.DailyNotes.RootDir == "" {
		c.DailyNotes.RootDir = defaultDailyNoteRootDir
	}
	c.DailyNotes.DateFormat = strings.TrimSpace(c.DailyNotes.DateFormat)
	if c.DailyNotes.DateFormat == "" {
		c.DailyNotes.DateFormat = defaultDateFormat
	}
	c.DailyNotes.TemplateFile = strings.TrimSpace(c.DailyNotes.TemplateFile)
}

func (c *Config) normalizeAttachments() {
	c.Attachments.Scenario = strings.ToLower(strings.TrimSpace(c.Attachments.Scenario))
	if c.Attachments.Scenario == "" {
		c.Attachments.Scenario = defaultScenario
	}
	for _, field := range []*string{
		&c.Attachments.ImageSubDir,
		&c.Attachments.VideoSubDir,
		&c.Attachments.OtherFilesSubDir,
	} {
		*field = strings.Trim(strings.TrimSpace(*field), "/")
	}
	if c.Attachments.ImageSubDir == "" {
		c.Attachments.ImageSubDir = defaultImageSubDir
	}
	if c.Attachments.VideoSubDir == "" {
		c.Attachments.VideoSubDir = defaultVideoSubDir
	}
	if c.Attachments.OtherFilesSubDir == "" {
		c.Attachments.OtherFilesSubDir = defaultOtherFilesSubDir
	}
	c.Attachments.ImageDefaultName = strings.TrimSpace(c.Attachments.ImageDefaultName)
	if c.Attachments.ImageDefaultName == "" {
		c.Attachments.ImageDefaultName = defaultImageDefaultName
	}
	if c.Attachments.MaxImageSizeKB == 0 {
		c.Attachments.MaxImageSizeKB = defaultMaxImageSizeKB
	}
	if c.Attachments.ResizeWidth == 0 {
		c.Attachments.ResizeWidth = defaultResizeWidth
	}
}

func (c *Config) normalizeSummary() {
	c.Summary.File = strings.Trim(strings.TrimSpace(c.Summary.File), "/")
	c.Summary.File = strings.TrimSuffix(c.Summary.File, ".md")
	if c.Summary.File == "" {
		c.Summary.File = defaultSummaryFile
	}
	if c.Summary.Days <= 0 {
		c.Summary.Days = defaultSummaryDays
	}
}

func (c *Config) normalizeCompression() {
	c.Compression.Binary = strings.TrimSpace(c.Compression.Binary)
	if c.Compression.Binary == "" {
		if value, ok := os.LookupEnv("SATCHEL_COMPRESS_BINARY"); ok {
			c.Compression.Binary = strings.TrimSpace(value)
		}
	}
	if c.Compression.Binary == "" {
		c.Compression.Binary = defaultCompressionBinary
	}
	if c.Compression.TimeoutSeconds <= 0 {
		c.Compression.TimeoutSeconds = defaultCompressionTimeout
	}
}

func (c *Config) normalizeDaemon() error {
	var err error
	if strings.TrimSpace(c.Daemon.StateDir) == "" {
		c.Daemon.StateDir = defaultStateDir
	}
	if c.Daemon.StateDir, err = expandPath(c.Daemon.StateDir); err != nil {
		return fmt.Errorf("daemon.state_dir: %w", err)
	}
	if c.Daemon.DebounceMillis <= 0 {
		c.Daemon.DebounceMillis = defaultDebounceMillis
	}
	if c.Daemon.SweepIntervalSeconds <= 0 {
		c.Daemon.SweepIntervalSeconds = defaultSweepIntervalSecs
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("SATCHEL_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	c.Notifications.MinLevel = strings.ToLower(strings.TrimSpace(c.Notifications.MinLevel))
	if c.Notifications.MinLevel == "" {
		c.Notifications.MinLevel = defaultNotifyMinLevel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
