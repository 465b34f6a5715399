package config

const (
	defaultVaultRoot          = "~/vault"
	defaultStateDir           = "~/.local/share/satchel"
	defaultDailyNoteRootDir   = "daily-notes"
	defaultDateFormat         = "YYYY-MM-DD"
	defaultBoundaryHour       = 2
	defaultScenario           = "daily-notes-only"
	defaultImageSubDir        = "images"
	defaultVideoSubDir        = "videos"
	defaultOtherFilesSubDir   = "other"
	defaultImageDefaultName   = "image"
	defaultSummaryFile        = "summary-page"
	defaultSummaryDays        = 7
	defaultCompressionBinary  = "magick"
	defaultCompressionTimeout = 120
	defaultDebounceMillis     = 400
	defaultSweepIntervalSecs  = 60
	defaultNotifyTimeout      = 10
	defaultNotifyMinLevel     = "info"
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
	defaultMaxImageSizeKB     = -1
	defaultResizeWidth        = -1
	defaultPreserveMetadata   = true
)

var defaultIgnoreGlobs = []string{".obsidian/**", ".trash/**", ".git/**"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Vault: Vault{
			Root:        defaultVaultRoot,
			IgnoreGlobs: append([]string(nil), defaultIgnoreGlobs...),
		},
		DailyNotes: DailyNotes{
			RootDir:      defaultDailyNoteRootDir,
			DateFormat:   defaultDateFormat,
			BoundaryHour: defaultBoundaryHour,
			Structured:   true,
		},
		Attachments: Attachments{
			Scenario:         defaultScenario,
			ImageSubDir:      defaultImageSubDir,
			VideoSubDir:      defaultVideoSubDir,
			OtherFilesSubDir: defaultOtherFilesSubDir,
			MaxImageSizeKB:   defaultMaxImageSizeKB,
			PreserveMetadata: defaultPreserveMetadata,
			ImageDefaultName: defaultImageDefaultName,
			ResizeWidth:      defaultResizeWidth,
		},
		Summary: Summary{
			File: defaultSummaryFile,
			Days: defaultSummaryDays,
		},
		Compression: Compression{
			Binary:         defaultCompressionBinary,
			TimeoutSeconds: defaultCompressionTimeout,
		},
		Daemon: Daemon{
			DebounceMillis:       defaultDebounceMillis,
			SweepIntervalSeconds: defaultSweepIntervalSecs,
			StateDir:             defaultStateDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			MinLevel:       defaultNotifyMinLevel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
