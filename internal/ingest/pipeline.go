package ingest

import (
	"log/slog"
	"path"
	"strings"
	"time"

	"satchel/internal/classify"
	"satchel/internal/compress"
	"satchel/internal/config"
	"satchel/internal/dailynote"
	"satchel/internal/history"
	"satchel/internal/logging"
	"satchel/internal/note"
	"satchel/internal/notify"
	"satchel/internal/pending"
	"satchel/internal/vault"
)

// Deps carries the pipeline collaborators. Zero fields get working defaults
// so tests can inject only what they observe.
type Deps struct {
	Queue      *pending.Queue
	Compressor compress.Compressor
	Notifier   notify.Service
	History    *history.Store
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline orchestrates attachment ingestion for one vault.
type Pipeline struct {
	cfg        *config.Config
	vault      *vault.Vault
	queue      *pending.Queue
	compressor compress.Compressor
	notifier   notify.Service
	history    *history.Store
	logger     *slog.Logger
	now        func() time.Time
}

// New constructs a Pipeline.
func New(cfg *config.Config, v *vault.Vault, deps Deps) *Pipeline {
	if deps.Queue == nil {
		deps.Queue = pending.NewQueue()
	}
	if deps.Compressor == nil {
		deps.Compressor = compress.New(CompressorOptions(cfg))
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewService(cfg)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		cfg:        cfg,
		vault:      v,
		queue:      deps.Queue,
		compressor: deps.Compressor,
		notifier:   deps.Notifier,
		history:    deps.History,
		logger:     logging.WithComponent(deps.Logger, "ingest"),
		now:        deps.Now,
	}
}

// CompressorOptions maps the configured compression settings onto compressor
// options. The CLI, the daemon, and the pipeline's default all build their
// compressor from this one mapping.
func CompressorOptions(cfg *config.Config) compress.Options {
	return compress.Options{
		Binary:           cfg.Compression.Binary,
		Timeout:          time.Duration(cfg.Compression.TimeoutSeconds) * time.Second,
		MaxSizeKB:        cfg.Attachments.MaxImageSizeKB,
		ResizeWidth:      cfg.Attachments.ResizeWidth,
		PreserveMetadata: cfg.Attachments.PreserveMetadata,
	}
}

// Queue exposes the correlation queue for status reporting.
func (p *Pipeline) Queue() *pending.Queue { return p.queue }

// handlingEnabled reports whether attachments should be handled for the
// given note under the configured scenario.
func (p *Pipeline) handlingEnabled(notePath string) bool {
	if !strings.HasSuffix(notePath, ".md") {
		return false
	}
	switch p.cfg.Mode() {
	case config.ModeDisabled:
		return false
	case config.ModeAll:
		return true
	default:
		_, ok := dailynote.ParseNotePath(p.cfg.DailyNoteConfig(), notePath)
		return ok
	}
}

// noteOptedOut reports whether the note's frontmatter disables attachment
// handling. Unreadable notes do not opt out.
func (p *Pipeline) noteOptedOut(notePath string) bool {
	content, err := p.vault.ReadFile(notePath)
	if err != nil {
		return false
	}
	fm, _ := note.ParseFrontmatter(content)
	return fm.Disabled()
}

// inAttachmentDir reports whether the path's parent is one of the configured
// attachment subdirectories.
func (p *Pipeline) inAttachmentDir(rel string) bool {
	parent := path.Base(path.Dir(rel))
	switch parent {
	case p.cfg.Attachments.ImageSubDir, p.cfg.Attachments.VideoSubDir, p.cfg.Attachments.OtherFilesSubDir:
		return true
	}
	return false
}

func (p *Pipeline) subDirFor(category classify.Category) string {
	switch category {
	case classify.CategoryImage:
		return p.cfg.Attachments.ImageSubDir
	case classify.CategoryVideo:
		return p.cfg.Attachments.VideoSubDir
	default:
		return p.cfg.Attachments.OtherFilesSubDir
	}
}
