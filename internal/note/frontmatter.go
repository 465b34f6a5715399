package note

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the per-note overrides the pipeline honors.
type Frontmatter struct {
	// Attachments controls attachment handling for this note. "disabled"
	// opts the note out entirely, "enabled" (or absent) keeps the
	// configured behavior, and any other value overrides the attachment
	// subdirectory, relative to the note's parent folder.
	Attachments string `yaml:"attachments"`
}

// Disabled reports whether the note opted out of attachment handling.
func (f Frontmatter) Disabled() bool {
	return f.Attachments == "disabled"
}

// SubDirOverride returns the note's attachment subdirectory override, or ""
// when the configured subdirectories apply.
func (f Frontmatter) SubDirOverride() string {
	switch f.Attachments {
	case "", "disabled", "enabled":
		return ""
	}
	return f.Attachments
}

// ParseFrontmatter splits content into its YAML frontmatter and body. Notes
// without a frontmatter block, or with one that fails to parse, yield a zero
// Frontmatter and the full content as body.
func ParseFrontmatter(content []byte) (Frontmatter, []byte) {
	var fm Frontmatter

	lines := bytes.Split(content, []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return fm, content
	}

	end := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			end = i
			break
		}
	}
	if end == 0 {
		return fm, content
	}

	block := bytes.Join(lines[1:end], []byte("\n"))
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return Frontmatter{}, content
	}
	return fm, bytes.Join(lines[end+1:], []byte("\n"))
}
