package note

import (
	"regexp"
	"time"

	"satchel/internal/dailynote"
)

var templateTokenRE = regexp.MustCompile(`\{\{(date|time|title)(?::([^}]+))?\}\}`)

// RenderTemplate expands a daily-note template for the given date and note
// title. Supported placeholders: {{date}}, {{date:FORMAT}}, {{time}},
// {{time:FORMAT}} and {{title}}. FORMAT uses the same token mini-language as
// the daily note date format.
func RenderTemplate(template string, date time.Time, title, defaultDateFormat string) string {
	return templateTokenRE.ReplaceAllStringFunc(template, func(match string) string {
		groups := templateTokenRE.FindStringSubmatch(match)
		kind, format := groups[1], groups[2]
		switch kind {
		case "title":
			return title
		case "time":
			if format == "" {
				return date.Format("15:04")
			}
			return dailynote.FormatDate(format, date)
		default:
			if format == "" {
				format = defaultDateFormat
			}
			return dailynote.FormatDate(format, date)
		}
	})
}
