package ingest

import (
	"context"
	"strings"

	"satchel/internal/dailynote"
	"satchel/internal/logging"
	"satchel/internal/services"
)

// SummaryPagePath returns the vault-relative path of the summary page.
func (p *Pipeline) SummaryPagePath() string {
	return p.cfg.DailyNotes.RootDir + "/" + p.cfg.Summary.File + ".md"
}

// UpdateSummaryPage rewrites the summary page with embeds of the configured
// number of trailing daily notes, newest first, skipping days without a
// note. The page is created only when createIfMissing is set; otherwise a
// missing page is left alone. It returns the page path and whether it was
// written. Day resolution ignores the boundary hour: the summary covers
// calendar days.
func (p *Pipeline) UpdateSummaryPage(ctx context.Context, createIfMissing bool) (string, bool, error) {
	if !p.cfg.Summary.Enabled {
		return "", false, services.Wrap(services.ErrConfiguration, "ingest", "summary",
			"summary page is disabled", nil)
	}

	dn := p.cfg.DailyNoteConfig()
	dn.BoundaryHour = 0

	var body strings.Builder
	day := p.now()
	for i := 0; i < p.cfg.Summary.Days; i++ {
		rel := dailynote.NotePath(dn, day)
		if p.vault.Exists(rel) {
			body.WriteString("![[" + rel + "]]\n\n")
		}
		day = day.AddDate(0, 0, -1)
	}

	pagePath := p.SummaryPagePath()
	if !p.vault.Exists(pagePath) && !createIfMissing {
		return pagePath, false, nil
	}
	if err := p.vault.WriteFile(pagePath, []byte(body.String())); err != nil {
		return pagePath, false, services.Wrap(services.ErrTransient, "ingest", "summary", pagePath, err)
	}
	p.logger.Info("summary page updated", logging.FieldNote, pagePath)
	return pagePath, true, nil
}
