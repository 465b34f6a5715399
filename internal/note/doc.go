// Package note parses and rewrites markdown notes: embed references in both
// wiki and standard markdown form, YAML frontmatter overrides, and template
// rendering for new daily notes.
package note
