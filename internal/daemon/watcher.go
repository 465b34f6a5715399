package daemon

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"satchel/internal/logging"
	"satchel/internal/vault"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 500

// Op indicates the type of file operation.
type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Event is one debounced vault change, with a vault-relative path.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches the vault tree and emits debounced change events.
type Watcher struct {
	vault    *vault.Vault
	ignore   []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before emitting
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events  chan Event
	dropped atomic.Int64
}

// NewWatcher creates a watcher over the vault root. ignoreGlobs are
// doublestar patterns matched against vault-relative paths.
func NewWatcher(v *vault.Vault, ignoreGlobs []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		vault:    v,
		ignore:   append([]string(nil), ignoreGlobs...),
		debounce: debounce,
		watcher:  fsw,
		logger:   logging.WithComponent(logger, "watcher"),
		pending:  make(map[string]fsnotify.Op),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced watch events. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds recursive watches and begins emitting events until the context
// is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.vault.Root()); err != nil {
		return err
	}
	go w.processEvents(ctx)
	w.logger.Info("vault watcher started",
		"root", w.vault.Root(),
		"debounce", w.debounce)
	return nil
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents reports events discarded because the channel was full.
func (w *Watcher) DroppedEvents() int64 {
	return w.dropped.Load()
}

func (w *Watcher) ignored(rel string) bool {
	for _, glob := range w.ignore {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ignoredDir additionally treats "dir/**" globs as excluding "dir" itself.
func (w *Watcher) ignoredDir(rel string) bool {
	if w.ignored(rel) {
		return true
	}
	for _, glob := range w.ignore {
		if strings.TrimSuffix(glob, "/**") == rel {
			return true
		}
	}
	return false
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if rel, ok := w.vault.Rel(p); ok && rel != "" && w.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn("failed to watch directory", "path", p, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	rel, ok := w.vault.Rel(event.Name)
	if !ok || rel == "" || w.ignored(rel) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.handleNewDirectory(event.Name, rel)
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.pendingMu.Lock()
	w.pending[rel] |= event.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) handleNewDirectory(abs, rel string) {
	if w.ignoredDir(rel) {
		return
	}
	if err := w.watcher.Add(abs); err != nil {
		w.logger.Warn("failed to watch new directory", "path", abs, "error", err)
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for rel, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event := Event{Path: rel}
		switch {
		case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
			event.Op = OpRemove
		case op.Has(fsnotify.Create):
			// The file may already be gone again (a provisional file the
			// pipeline renamed within the debounce window).
			if !w.vault.Exists(rel) {
				continue
			}
			event.Op = OpCreate
		default:
			event.Op = OpWrite
		}
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// isMarkdown reports whether the relative path names a note.
func isMarkdown(rel string) bool {
	return strings.EqualFold(path.Ext(rel), ".md")
}
