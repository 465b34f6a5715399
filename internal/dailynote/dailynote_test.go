package dailynote_test

import (
	"testing"
	"time"

	"satchel/internal/dailynote"
)

func structuredConfig() dailynote.Config {
	return dailynote.Config{
		RootDir:      "Daily Notes",
		DateFormat:   "YYYY-MM-DD",
		BoundaryHour: 2,
		Structured:   true,
	}
}

func TestNotePathStructuredLayout(t *testing.T) {
	cfg := structuredConfig()
	date := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	if got := dailynote.MonthDir(cfg, date); got != "Daily Notes/2024/Mar" {
		t.Fatalf("unexpected month dir: %q", got)
	}
	if got := dailynote.NotePath(cfg, date); got != "Daily Notes/2024/Mar/2024-03-05.md" {
		t.Fatalf("unexpected note path: %q", got)
	}
}

func TestNotePathFlatLayout(t *testing.T) {
	cfg := structuredConfig()
	cfg.Structured = false
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	if got := dailynote.NotePath(cfg, date); got != "Daily Notes/2024-03-05.md" {
		t.Fatalf("unexpected note path: %q", got)
	}
}

func TestDayBoundaryShiftsEarlyMorning(t *testing.T) {
	cfg := structuredConfig()

	early := time.Date(2024, time.March, 5, 1, 30, 0, 0, time.UTC)
	if got := dailynote.NotePathAt(cfg, early); got != "Daily Notes/2024/Mar/2024-03-04.md" {
		t.Fatalf("expected boundary shift to previous day, got %q", got)
	}

	late := time.Date(2024, time.March, 5, 2, 30, 0, 0, time.UTC)
	if got := dailynote.NotePathAt(cfg, late); got != "Daily Notes/2024/Mar/2024-03-05.md" {
		t.Fatalf("expected same-day resolution, got %q", got)
	}
}

func TestDayBoundaryAcrossMonthStart(t *testing.T) {
	cfg := structuredConfig()
	instant := time.Date(2024, time.March, 1, 0, 45, 0, 0, time.UTC)
	if got := dailynote.NotePathAt(cfg, instant); got != "Daily Notes/2024/Feb/2024-02-29.md" {
		t.Fatalf("expected shift into previous month, got %q", got)
	}
}

func TestParseNotePathRoundTrip(t *testing.T) {
	configs := []dailynote.Config{
		structuredConfig(),
		{RootDir: "journal", DateFormat: "YYYY-MM-DD", Structured: false},
		{RootDir: "notes", DateFormat: "DD.MM.YY", Structured: true},
		{RootDir: "notes", DateFormat: "MMM D, YYYY", Structured: false},
	}
	dates := []time.Time{
		time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, cfg := range configs {
		for _, date := range dates {
			notePath := dailynote.NotePath(cfg, date)
			parsed, ok := dailynote.ParseNotePath(cfg, notePath)
			if !ok {
				t.Fatalf("ParseNotePath rejected %q (format %q)", notePath, cfg.DateFormat)
			}
			if !parsed.Equal(date) {
				t.Fatalf("round trip mismatch for %q: got %v want %v", notePath, parsed, date)
			}
		}
	}
}

func TestParseNotePathRejectsWrongDirectory(t *testing.T) {
	cfg := structuredConfig()
	// Correctly formatted basename, wrong folder.
	if _, ok := dailynote.ParseNotePath(cfg, "inbox/2024-03-05.md"); ok {
		t.Fatal("expected rejection of date-shaped name outside the daily note tree")
	}
	// Right root, wrong month directory.
	if _, ok := dailynote.ParseNotePath(cfg, "Daily Notes/2024/Apr/2024-03-05.md"); ok {
		t.Fatal("expected rejection of note under the wrong month directory")
	}
}

func TestParseNotePathRejectsMalformedNames(t *testing.T) {
	cfg := structuredConfig()
	for _, p := range []string{
		"Daily Notes/2024/Mar/2024-3-05.md",
		"Daily Notes/2024/Mar/2024-03-05-draft.md",
		"Daily Notes/2024/Mar/meeting.md",
		"Daily Notes/2024/Feb/2024-02-30.md",
	} {
		if _, ok := dailynote.ParseNotePath(cfg, p); ok {
			t.Fatalf("expected rejection of %q", p)
		}
	}
}
