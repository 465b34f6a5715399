package config

import (
	"errors"
	"fmt"
	"strings"

	"satchel/internal/dailynote"
)

// Mode is the closed set of attachment handling scenarios.
type Mode string

const (
	ModeDisabled       Mode = "disabled"
	ModeDailyNotesOnly Mode = "daily-notes-only"
	ModeAll            Mode = "all"
)

var validModes = map[Mode]struct{}{
	ModeDisabled:       {},
	ModeDailyNotesOnly: {},
	ModeAll:            {},
}

// Mode returns the validated attachment handling mode.
func (c *Config) Mode() Mode {
	return Mode(c.Attachments.Scenario)
}

// DailyNoteConfig adapts the daily note section for the resolver.
func (c *Config) DailyNoteConfig() dailynote.Config {
	return dailynote.Config{
		RootDir:      c.DailyNotes.RootDir,
		DateFormat:   c.DailyNotes.DateFormat,
		BoundaryHour: c.DailyNotes.BoundaryHour,
		Structured:   c.DailyNotes.Structured,
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVault(); err != nil {
		return err
	}
	if err := c.validateDailyNotes(); err != nil {
		return err
	}
	if err := c.validateAttachments(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVault() error {
	if strings.TrimSpace(c.Vault.Root) == "" {
		return errors.New("vault.root must be set")
	}
	return nil
}

func (c *Config) validateDailyNotes() error {
	if err := dailynote.ValidateFormat(c.DailyNotes.DateFormat); err != nil {
		return fmt.Errorf("daily_notes.date_format: %w", err)
	}
	if c.DailyNotes.BoundaryHour < 0 || c.DailyNotes.BoundaryHour > 23 {
		return errors.New("daily_notes.boundary_hour must be between 0 and 23")
	}
	if strings.Contains(c.DailyNotes.RootDir, "\\") {
		return errors.New("daily_notes.root_dir must use forward slashes")
	}
	return nil
}

func (c *Config) validateAttachments() error {
	if _, ok := validModes[Mode(c.Attachments.Scenario)]; !ok {
		return fmt.Errorf("attachments.scenario must be one of %q, %q, %q",
			ModeDisabled, ModeDailyNotesOnly, ModeAll)
	}
	if c.Attachments.MaxImageSizeKB != -1 && c.Attachments.MaxImageSizeKB <= 0 {
		return errors.New("attachments.max_image_size_kb must be positive or -1 to disable")
	}
	if c.Attachments.ResizeWidth != -1 && c.Attachments.ResizeWidth <= 0 {
		return errors.New("attachments.resize_width must be positive or -1 to disable")
	}
	for name, value := range map[string]string{
		"attachments.image_sub_dir":       c.Attachments.ImageSubDir,
		"attachments.video_sub_dir":       c.Attachments.VideoSubDir,
		"attachments.other_files_sub_dir": c.Attachments.OtherFilesSubDir,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", name)
		}
		if strings.ContainsAny(value, "\\") || strings.Contains(value, "..") {
			return fmt.Errorf("%s must be a plain relative directory name", name)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.MinLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("notifications.min_level: unsupported value %q", c.Notifications.MinLevel)
	}
}
