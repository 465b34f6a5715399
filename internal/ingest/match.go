package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"satchel/internal/classify"
	"satchel/internal/history"
	"satchel/internal/logging"
	"satchel/internal/note"
	"satchel/internal/notify"
	"satchel/internal/pending"
	"satchel/internal/services"
)

// HandleNoteChange correlates the note's embeds against pending records and
// finalizes every match. Expired records are swept first so a record whose
// window lapsed is never matched, even when this change is the first
// activity after expiry.
func (p *Pipeline) HandleNoteChange(ctx context.Context, notePath string) error {
	p.sweep(ctx)

	if !p.handlingEnabled(notePath) {
		return nil
	}
	content, err := p.vault.ReadFile(notePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "ingest", "read note", notePath, err)
		}
		return services.Wrap(services.ErrTransient, "ingest", "read note", notePath, err)
	}
	fm, _ := note.ParseFrontmatter(content)
	if fm.Disabled() {
		return nil
	}

	// Materialize every match decision before doing any I/O so queue
	// bookkeeping never interleaves with renames.
	type match struct {
		rec pending.Record
		emb note.Embed
	}
	var matches []match
	for _, emb := range note.Embeds(string(content)) {
		if rec, ok := p.queue.TryMatch(notePath, emb.Basename()); ok {
			matches = append(matches, match{rec: rec, emb: emb})
		}
	}

	var errs []error
	for _, m := range matches {
		if err := p.finalize(ctx, notePath, fm, m.rec, m.emb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// finalize moves one matched attachment to its final home and rewrites the
// note's embed. On I/O failure the embed is still rewritten to point at the
// intended path so the user can finish the move manually.
func (p *Pipeline) finalize(ctx context.Context, notePath string, fm note.Frontmatter, rec pending.Record, emb note.Embed) error {
	noteDir := path.Dir(notePath)
	if noteDir == "." {
		noteDir = ""
	}
	subDir := p.subDirFor(rec.Category)
	if override := fm.SubDirOverride(); override != "" {
		subDir = override
	}
	finalDir := path.Join(noteDir, subDir)
	noteBase := strings.TrimSuffix(path.Base(notePath), ".md")

	finalName, err := p.finalName(notePath, noteBase, finalDir, rec)
	if err != nil {
		p.failRecord(ctx, rec, notePath, "", err)
		return err
	}
	finalRel := path.Join(finalDir, finalName)

	outcome := history.OutcomeRenamed
	var moveErr error
	if rec.Category != classify.CategoryImage && p.vault.Exists(finalRel) {
		// The same document is already stored; link it instead of
		// overwriting, and drop the duplicate copy.
		outcome = history.OutcomeLinked
		if err := p.vault.Remove(rec.CreatedPath); err != nil {
			p.logger.Warn("could not remove duplicate copy", logging.FieldFile, rec.CreatedPath, "error", err)
		}
		_ = p.notifier.Publish(ctx, notify.EventAttachmentLinked, notify.Payload{
			"file": finalName,
			"note": path.Base(notePath),
		})
	} else {
		moveErr = p.vault.Rename(rec.CreatedPath, finalRel)
		if moveErr != nil {
			moveErr = services.Wrap(services.ErrTransient, "ingest", "rename", finalRel, moveErr)
		}
	}

	p.rewriteEmbed(notePath, emb, finalRel)

	if moveErr != nil {
		p.failRecord(ctx, rec, notePath, finalRel, moveErr)
		return moveErr
	}

	p.recordHistory(ctx, history.Entry{
		RecordID:     rec.ID.String(),
		NotePath:     notePath,
		OriginalPath: rec.CreatedPath,
		FinalPath:    finalRel,
		Category:     rec.Category.String(),
		Outcome:      outcome,
	})
	p.logger.Info("attachment finalized",
		logging.FieldNote, notePath,
		logging.FieldFile, finalRel,
		logging.FieldOutcome, string(outcome))
	if outcome == history.OutcomeRenamed {
		_ = p.notifier.Publish(ctx, notify.EventAttachmentStored, notify.Payload{
			"file": finalName,
			"note": path.Base(notePath),
		})
	}
	return nil
}

// finalName applies the naming rules: numbered images share the queue's
// serialization so a batch never collides, everything else is prefixed with
// the note basename.
func (p *Pipeline) finalName(notePath, noteBase, finalDir string, rec pending.Record) (string, error) {
	origBase := note.NormalizeName(path.Base(rec.CreatedPath))
	ext := path.Ext(origBase)

	if rec.Category == classify.CategoryImage && !p.cfg.Attachments.KeepImageOriginalName {
		prefix := noteBase + "-" + p.cfg.Attachments.ImageDefaultName
		number, err := p.queue.NextImageNumber(notePath, func() (int, error) {
			return p.vault.CountWithPrefix(finalDir, prefix+"-")
		})
		if err != nil {
			return "", services.Wrap(services.ErrTransient, "ingest", "count images", finalDir, err)
		}
		return fmt.Sprintf("%s-%02d%s", prefix, number, ext), nil
	}

	name := noteBase + "-" + origBase
	if rec.Category == classify.CategoryImage {
		stem := strings.TrimSuffix(name, ext)
		for i := 1; p.vault.Exists(path.Join(finalDir, name)); i++ {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
	}
	return name, nil
}

// rewriteEmbed swaps the provisional embed markup for a wiki embed of the
// final path, attaching the configured display width to resizable files.
func (p *Pipeline) rewriteEmbed(notePath string, emb note.Embed, finalRel string) {
	content, err := p.vault.ReadFile(notePath)
	if err != nil {
		p.logger.Warn("could not reread note for embed rewrite", logging.FieldNote, notePath, "error", err)
		return
	}
	width := emb.Width
	if width == 0 && p.cfg.Attachments.ResizeWidth > 0 && classify.Resizable(finalRel) {
		width = p.cfg.Attachments.ResizeWidth
	}
	updated, ok := note.ReplaceEmbed(string(content), emb.Markup, note.WikiEmbed(finalRel, width))
	if !ok {
		p.logger.Warn("embed markup vanished before rewrite", logging.FieldNote, notePath, logging.FieldFile, finalRel)
		return
	}
	if err := p.vault.WriteFile(notePath, []byte(updated)); err != nil {
		p.logger.Warn("embed rewrite failed", logging.FieldNote, notePath, "error", err)
	}
}

func (p *Pipeline) failRecord(ctx context.Context, rec pending.Record, notePath, finalRel string, cause error) {
	p.recordHistory(ctx, history.Entry{
		RecordID:     rec.ID.String(),
		NotePath:     notePath,
		OriginalPath: rec.CreatedPath,
		FinalPath:    finalRel,
		Category:     rec.Category.String(),
		Outcome:      history.OutcomeFailed,
		Detail:       cause.Error(),
	})
	_ = p.notifier.Publish(ctx, notify.EventError, notify.Payload{
		"context": "finalize " + path.Base(rec.CreatedPath),
		"error":   cause.Error(),
	})
}

// SweepNow discards stale records immediately. The daemon calls this on a
// timer; HandleNoteChange runs the same sweep opportunistically.
func (p *Pipeline) SweepNow(ctx context.Context) {
	p.sweep(ctx)
}

func (p *Pipeline) sweep(ctx context.Context) {
	for _, rec := range p.queue.SweepExpired(p.now()) {
		p.recordHistory(ctx, history.Entry{
			RecordID:     rec.ID.String(),
			NotePath:     rec.NotePath,
			OriginalPath: rec.CreatedPath,
			Category:     rec.Category.String(),
			Outcome:      history.OutcomeExpired,
			Detail:       "no note change within the staleness window",
		})
		p.logger.Warn("pending attachment expired",
			logging.FieldNote, rec.NotePath,
			logging.FieldFile, rec.CreatedPath)
		_ = p.notifier.Publish(ctx, notify.EventAttachmentExpired, notify.Payload{
			"file":   path.Base(rec.CreatedPath),
			"window": pending.StalenessWindow.String(),
			"path":   rec.CreatedPath,
		})
	}
}
