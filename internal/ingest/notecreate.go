package ingest

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	"satchel/internal/dailynote"
	"satchel/internal/logging"
	"satchel/internal/note"
	"satchel/internal/notify"
	"satchel/internal/services"
)

// EnsureDailyNote creates the daily note for the given instant if it does
// not exist yet, rendering the configured template when one is set. It
// returns the note's vault-relative path and whether it was created.
func (p *Pipeline) EnsureDailyNote(ctx context.Context, now time.Time) (string, bool, error) {
	dn := p.cfg.DailyNoteConfig()
	date := dailynote.ResolveDate(dn, now)
	rel := dailynote.NotePath(dn, date)
	if p.vault.Exists(rel) {
		return rel, false, nil
	}

	title := strings.TrimSuffix(path.Base(rel), ".md")
	body := ""
	if tmplPath := p.cfg.DailyNotes.TemplateFile; tmplPath != "" {
		raw, err := os.ReadFile(tmplPath)
		if err != nil {
			return "", false, services.Wrap(services.ErrConfiguration, "ingest", "read template", tmplPath, err)
		}
		body = note.RenderTemplate(string(raw), date, title, dn.DateFormat)
	}

	if err := p.vault.WriteFile(rel, []byte(body)); err != nil {
		return "", false, services.Wrap(services.ErrTransient, "ingest", "create note", rel, err)
	}
	p.logger.Info("created daily note", logging.FieldNote, rel)
	_ = p.notifier.Publish(ctx, notify.EventNoteCreated, notify.Payload{"note": rel})
	return rel, true, nil
}
