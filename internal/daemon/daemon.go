package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"satchel/internal/config"
	"satchel/internal/dailynote"
	"satchel/internal/history"
	"satchel/internal/ingest"
	"satchel/internal/logging"
	"satchel/internal/pending"
	"satchel/internal/services"
	"satchel/internal/vault"
)

// Daemon coordinates the vault watcher and ingest pipeline and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	vault    *vault.Vault
	pipeline *ingest.Pipeline
	store    *history.Store
	logger   *slog.Logger
	tracker  activeTracker

	lockPath string
	lock     *flock.Flock

	watcher *Watcher
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	VaultRoot     string
	Pending       []pending.Record
	LockFilePath  string
	HistoryDBPath string
	DroppedEvents int64
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, v *vault.Vault, pipeline *ingest.Pipeline, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || v == nil || pipeline == nil {
		return nil, errors.New("daemon requires config, vault, and pipeline")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Daemon.StateDir, "satcheld.lock")
	return &Daemon{
		cfg:      cfg,
		vault:    v,
		pipeline: pipeline,
		store:    store,
		logger:   logging.WithComponent(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watcher and event loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another satchel daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	watcher, err := NewWatcher(d.vault, d.cfg.Vault.IgnoreGlobs,
		time.Duration(d.cfg.Daemon.DebounceMillis)*time.Millisecond, d.logger)
	if err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(runCtx); err != nil {
		cancel()
		_ = watcher.Stop()
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}

	d.watcher = watcher
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	go d.run(runCtx)
	d.logger.Info("satchel daemon started", "lock", d.lockPath, "vault", d.vault.Root())
	return nil
}

func (d *Daemon) run(ctx context.Context) {
	defer close(d.done)

	sweepInterval := time.Duration(d.cfg.Daemon.SweepIntervalSeconds) * time.Second
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.watcher.Events():
			if !ok {
				return
			}
			d.handleEvent(ctx, event)
		case <-sweep.C:
			d.pipeline.SweepNow(ctx)
		}
	}
}

func (d *Daemon) handleEvent(ctx context.Context, event Event) {
	if isMarkdown(event.Path) {
		if event.Op != OpRemove {
			d.tracker.Set(event.Path)
			if err := d.pipeline.HandleNoteChange(ctx, event.Path); err != nil {
				if services.Rejected(err) {
					d.logger.Warn("note change refused",
						logging.FieldNote, event.Path, "error", err)
				} else {
					d.logger.Error("note change handling failed",
						logging.FieldNote, event.Path, "error", err)
				}
			}
		}
		d.refreshSummary(ctx, event.Path)
		return
	}
	if event.Op != OpCreate {
		return
	}
	d.pipeline.HandleCreate(ctx, event.Path, d.tracker.Active(d.defaultNotePath()))
}

// refreshSummary rewrites the summary page when a daily note appeared,
// changed, or vanished. The page is never created here; only the CLI does
// that.
func (d *Daemon) refreshSummary(ctx context.Context, rel string) {
	if !d.cfg.Summary.Enabled {
		return
	}
	if _, ok := dailynote.ParseNotePath(d.cfg.DailyNoteConfig(), rel); !ok {
		return
	}
	if _, _, err := d.pipeline.UpdateSummaryPage(ctx, false); err != nil {
		d.logger.Warn("summary page refresh failed", "error", err)
	}
}

// defaultNotePath returns today's daily note when it exists, so attachments
// created before any edit still find an owner.
func (d *Daemon) defaultNotePath() string {
	rel := dailynote.NotePathAt(d.cfg.DailyNoteConfig(), time.Now())
	if d.vault.Exists(rel) {
		return rel
	}
	return ""
}

// Stop halts the watcher and event loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.watcher != nil {
		_ = d.watcher.Stop()
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", "error", err)
	}
	d.running.Store(false)
	d.logger.Info("satchel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		VaultRoot:    d.vault.Root(),
		Pending:      d.pipeline.Queue().Pending(),
		LockFilePath: d.lockPath,
	}
	if d.store != nil {
		status.HistoryDBPath = d.store.Path()
	}
	if d.watcher != nil {
		status.DroppedEvents = d.watcher.DroppedEvents()
	}
	return status
}
