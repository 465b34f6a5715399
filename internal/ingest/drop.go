package ingest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"satchel/internal/classify"
	"satchel/internal/history"
	"satchel/internal/logging"
	"satchel/internal/note"
	"satchel/internal/notify"
	"satchel/internal/pending"
	"satchel/internal/services"
)

// HandleDrop stages externally dropped files for the given note. The whole
// batch is validated first: if any file is unsupported, nothing is created
// and the caller learns which file was rejected. After validation each file
// is staged independently; an I/O failure on one does not roll back the
// others.
func (p *Pipeline) HandleDrop(ctx context.Context, notePath string, files []string) ([]pending.Record, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if !p.handlingEnabled(notePath) {
		return nil, services.Wrap(services.ErrValidation, "ingest", "drop",
			fmt.Sprintf("attachment handling is not enabled for %s", notePath), nil)
	}
	if p.noteOptedOut(notePath) {
		return nil, services.Wrap(services.ErrValidation, "ingest", "drop",
			fmt.Sprintf("%s disables attachments in its frontmatter", notePath), nil)
	}

	// All-or-nothing: classify everything before touching the vault.
	categories := make([]classify.Category, len(files))
	for i, file := range files {
		category := classify.File(file)
		if !category.Supported() {
			reason := fmt.Sprintf("%s has an unsupported type (%s)", filepath.Base(file), classify.Detected(file))
			_ = p.notifier.Publish(ctx, notify.EventBatchRejected, notify.Payload{"reason": reason})
			return nil, services.Wrap(services.ErrUnsupported, "ingest", "drop", reason, nil)
		}
		categories[i] = category
	}

	var (
		records []pending.Record
		errs    []error
	)
	for i, file := range files {
		rec, err := p.stage(ctx, notePath, file, categories[i])
		if err != nil {
			errs = append(errs, err)
			p.logger.Error("staging failed", logging.FieldFile, file, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}

// stage copies one external file to its provisional location, compresses
// images, and enqueues the correlation record.
func (p *Pipeline) stage(ctx context.Context, notePath, file string, category classify.Category) (pending.Record, error) {
	noteDir := path.Dir(notePath)
	if noteDir == "." {
		noteDir = ""
	}
	base := note.NormalizeName(filepath.Base(file))
	provisional := p.provisionalPath(noteDir, base)

	if err := p.vault.Import(file, provisional); err != nil {
		return pending.Record{}, services.Wrap(services.ErrTransient, "ingest", "stage", provisional, err)
	}
	p.compressInPlace(ctx, provisional, category)

	rec := p.queue.Enqueue(notePath, provisional, category, p.now())
	p.logger.Info("staged attachment",
		logging.FieldNote, notePath,
		logging.FieldFile, provisional,
		logging.FieldCategory, category.String())
	return rec, nil
}

// HandleCreate reacts to a file appearing inside the vault. Unsupported
// files are ignored rather than rejected since the creation already
// happened outside the pipeline.
func (p *Pipeline) HandleCreate(ctx context.Context, createdPath, notePath string) {
	if notePath == "" || !p.handlingEnabled(notePath) {
		return
	}
	if p.noteOptedOut(notePath) {
		p.logger.Debug("note opted out of attachment handling", logging.FieldNote, notePath)
		return
	}
	if p.inAttachmentDir(createdPath) {
		// Files the pipeline itself just placed come back as create
		// events; tracking them again would only produce expiry noise.
		return
	}
	category := classify.File(createdPath)
	if !category.Supported() {
		p.logger.Debug("ignoring unsupported file", logging.FieldFile, createdPath)
		return
	}
	p.compressInPlace(ctx, createdPath, category)
	p.queue.Enqueue(notePath, createdPath, category, p.now())
	p.logger.Info("tracking created file",
		logging.FieldNote, notePath,
		logging.FieldFile, createdPath,
		logging.FieldCategory, category.String())
}

// Ingest runs the full flow synchronously for CLI use: stage the files,
// append embed references to the note, then correlate and finalize.
func (p *Pipeline) Ingest(ctx context.Context, notePath string, files []string) error {
	records, err := p.HandleDrop(ctx, notePath, files)
	if len(records) == 0 {
		return err
	}

	content, readErr := p.vault.ReadFile(notePath)
	if readErr != nil {
		return services.Wrap(services.ErrTransient, "ingest", "read note", notePath, readErr)
	}
	text := string(content)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	for _, rec := range records {
		text += note.WikiEmbed(path.Base(rec.CreatedPath), 0) + "\n"
	}
	if writeErr := p.vault.WriteFile(notePath, []byte(text)); writeErr != nil {
		return services.Wrap(services.ErrTransient, "ingest", "write note", notePath, writeErr)
	}

	if matchErr := p.HandleNoteChange(ctx, notePath); matchErr != nil {
		return errors.Join(err, matchErr)
	}
	return err
}

func (p *Pipeline) compressInPlace(ctx context.Context, rel string, category classify.Category) {
	if category != classify.CategoryImage {
		return
	}
	abs, err := p.vault.Abs(rel)
	if err != nil {
		return
	}
	changed, err := p.compressor.Compress(ctx, abs)
	if err != nil {
		// Compression is best effort; the original file stays usable.
		p.logger.Warn("image compression failed", logging.FieldFile, rel, "error", err)
		return
	}
	if changed {
		p.logger.Debug("compressed image", logging.FieldFile, rel)
	}
}

// provisionalPath picks a free name next to the note for a just-dropped
// file, suffixing a counter on collision.
func (p *Pipeline) provisionalPath(noteDir, base string) string {
	candidate := path.Join(noteDir, base)
	if !p.vault.Exists(candidate) {
		return candidate
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate = path.Join(noteDir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if !p.vault.Exists(candidate) {
			return candidate
		}
	}
}

func (p *Pipeline) recordHistory(ctx context.Context, entry history.Entry) {
	if p.history == nil {
		return
	}
	if _, err := p.history.Record(ctx, entry); err != nil {
		p.logger.Warn("history write failed", "error", err)
	}
}
