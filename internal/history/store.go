package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is the terminal state recorded for one ingested attachment.
type Outcome string

const (
	// OutcomeRenamed means the attachment was moved to its final path and
	// the note's embed was rewritten.
	OutcomeRenamed Outcome = "renamed"
	// OutcomeLinked means the final path already existed; the note was
	// pointed at the existing file and the provisional copy removed.
	OutcomeLinked Outcome = "linked"
	// OutcomeExpired means no note change arrived within the staleness
	// window; the file stays at its provisional path.
	OutcomeExpired Outcome = "expired"
	// OutcomeFailed means an I/O step failed after correlation.
	OutcomeFailed Outcome = "failed"
)

// Entry is one audit row.
type Entry struct {
	ID           int64
	RecordID     string
	NotePath     string
	OriginalPath string
	FinalPath    string
	Category     string
	Outcome      Outcome
	Detail       string
	CreatedAt    time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one audit row and returns its ID.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	ctx = ensureContext(ctx)
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO ingest_history (record_id, note_path, original_path, final_path, category, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RecordID, entry.NotePath, entry.OriginalPath, entry.FinalPath,
		entry.Category, string(entry.Outcome), entry.Detail, createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("record history entry: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record_id, note_path, original_path, final_path, category, outcome, detail, created_at
		 FROM ingest_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForNote returns every entry recorded for the given note, oldest first.
func (s *Store) ForNote(ctx context.Context, notePath string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record_id, note_path, original_path, final_path, category, outcome, detail, created_at
		 FROM ingest_history WHERE note_path = ? ORDER BY id ASC`, notePath)
	if err != nil {
		return nil, fmt.Errorf("query history for note: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Clear deletes every history entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM ingest_history")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// CountByOutcome aggregates entries per outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[Outcome]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT outcome, COUNT(1) FROM ingest_history GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("count history outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var outcome, createdAt string
		if err := rows.Scan(&entry.ID, &entry.RecordID, &entry.NotePath, &entry.OriginalPath,
			&entry.FinalPath, &entry.Category, &outcome, &entry.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.Outcome = Outcome(outcome)
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	delay := busyRetryInitialBackoff
	var (
		res     sql.Result
		execErr error
	)
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		if execErr == nil {
			return res, nil
		}
		if !isSQLiteBusy(execErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return nil, execErr
}
