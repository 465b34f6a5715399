package dailynote

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Config holds the resolution rules for one call. Immutable.
type Config struct {
	// RootDir is the daily note directory relative to the vault root,
	// slash-separated, without leading or trailing slashes.
	RootDir string
	// DateFormat is the note basename template (see FormatDate).
	DateFormat string
	// BoundaryHour shifts instants before this hour to the previous day.
	BoundaryHour int
	// Structured places notes under year/month subdirectories.
	Structured bool
}

// ResolveDate applies the day-boundary rule: an instant earlier than the
// configured hour belongs to the previous calendar day.
func ResolveDate(cfg Config, now time.Time) time.Time {
	if now.Hour() < cfg.BoundaryHour {
		now = now.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthDir returns the directory holding the daily note for date:
// root/YYYY/Mon when structured, root otherwise.
func MonthDir(cfg Config, date time.Time) string {
	if !cfg.Structured {
		return cfg.RootDir
	}
	return path.Join(cfg.RootDir, fmt.Sprintf("%04d", date.Year()), shortMonths[date.Month()-1])
}

// NoteName returns the formatted basename for date, without extension.
func NoteName(cfg Config, date time.Time) string {
	return FormatDate(cfg.DateFormat, date)
}

// NotePath returns the canonical note path for date. Deterministic and
// idempotent: equal inputs always yield the same string.
func NotePath(cfg Config, date time.Time) string {
	return path.Join(MonthDir(cfg, date), NoteName(cfg, date)+".md")
}

// NotePathAt resolves the canonical path for a wall-clock instant, applying
// the day-boundary rule first.
func NotePathAt(cfg Config, now time.Time) string {
	return NotePath(cfg, ResolveDate(cfg, now))
}

// ParseNotePath reports whether notePath is a canonical daily note path and,
// if so, the date it addresses. The basename must match the date format
// exactly and the re-derived canonical path must equal the input: a
// date-shaped name in the wrong directory is not a daily note.
func ParseNotePath(cfg Config, notePath string) (time.Time, bool) {
	base := path.Base(notePath)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" {
		return time.Time{}, false
	}
	date, ok := ParseDate(cfg.DateFormat, name)
	if !ok {
		return time.Time{}, false
	}
	if NotePath(cfg, date) != notePath {
		return time.Time{}, false
	}
	return date, true
}
