package history_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"satchel/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := history.Entry{
		RecordID:     "rec-1",
		NotePath:     "daily/2024-03-05.md",
		OriginalPath: "inbox/photo.png",
		FinalPath:    "daily/images/2024-03-05-image-01.png",
		Category:     "image",
		Outcome:      history.OutcomeRenamed,
		CreatedAt:    time.Now().Add(-time.Minute),
	}
	if _, err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := first
	second.RecordID = "rec-2"
	second.OriginalPath = "inbox/old.png"
	second.FinalPath = ""
	second.Outcome = history.OutcomeExpired
	second.Detail = "no note change within window"
	if _, err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RecordID != "rec-2" {
		t.Fatalf("expected newest first, got %q", entries[0].RecordID)
	}
	if entries[1].FinalPath != first.FinalPath {
		t.Fatalf("final path not round-tripped: %q", entries[1].FinalPath)
	}
	if entries[1].CreatedAt.IsZero() {
		t.Fatal("created_at should round-trip")
	}
}

func TestForNoteAndCounts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i, outcome := range []history.Outcome{history.OutcomeRenamed, history.OutcomeRenamed, history.OutcomeLinked} {
		entry := history.Entry{
			RecordID:     "rec",
			NotePath:     "daily/2024-03-05.md",
			OriginalPath: "inbox/file.png",
			Category:     "image",
			Outcome:      outcome,
		}
		if i == 2 {
			entry.NotePath = "daily/2024-03-06.md"
		}
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.ForNote(ctx, "daily/2024-03-05.md")
	if err != nil {
		t.Fatalf("ForNote: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for note, got %d", len(entries))
	}

	counts, err := store.CountByOutcome(ctx)
	if err != nil {
		t.Fatalf("CountByOutcome: %v", err)
	}
	if counts[history.OutcomeRenamed] != 2 || counts[history.OutcomeLinked] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{
		RecordID: "rec", NotePath: "a.md", OriginalPath: "b.png",
		Category: "image", Outcome: history.OutcomeRenamed,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(context.Background(), 5)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected persisted entry after reopen: %v %d", err, len(entries))
	}
}

func TestClearRemovesAllEntries(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := history.Entry{
			RecordID: fmt.Sprintf("rec-%d", i),
			NotePath: "daily/2024-03-05.md",
			Category: "image",
			Outcome:  history.OutcomeRenamed,
		}
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed entries, got %d", removed)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history after clear, got %d entries", len(entries))
	}
}
