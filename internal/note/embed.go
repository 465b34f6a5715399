package note

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Embed is one attachment reference found in a note body.
type Embed struct {
	// LinkText is the embed target as written, without any width suffix.
	LinkText string
	// Width is the requested display width, or 0 when absent.
	Width int
	// Markup is the exact source substring, suitable for ReplaceEmbed.
	Markup string
}

// Basename returns the final path segment of the link text, NFC-normalized
// for comparison against filesystem names.
func (e Embed) Basename() string {
	return NormalizeName(path.Base(e.LinkText))
}

// NormalizeName maps a file or link name to NFC so that names written by
// macOS (NFD) compare equal to the same name typed into a note.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

var (
	wikiEmbedRE     = regexp.MustCompile(`!\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)
	markdownEmbedRE = regexp.MustCompile(`!\[([^\[\]]*)\]\(([^()]+)\)`)
)

// Embeds extracts attachment references from a note body. Wiki embeds are
// matched textually; standard markdown images are cross-checked against the
// goldmark AST so that examples inside code fences are not treated as real
// references.
func Embeds(content string) []Embed {
	var embeds []Embed

	for _, m := range wikiEmbedRE.FindAllStringSubmatch(content, -1) {
		embeds = append(embeds, Embed{
			LinkText: strings.TrimSpace(m[1]),
			Width:    parseWidth(m[2]),
			Markup:   m[0],
		})
	}

	destinations := imageDestinations(content)
	for _, m := range markdownEmbedRE.FindAllStringSubmatch(content, -1) {
		target := strings.TrimSpace(m[2])
		if decoded, err := url.PathUnescape(target); err == nil {
			target = decoded
		}
		if _, ok := destinations[target]; !ok {
			continue
		}
		embeds = append(embeds, Embed{
			LinkText: target,
			Width:    parseWidth(altWidth(m[1])),
			Markup:   m[0],
		})
	}

	return embeds
}

// imageDestinations parses the body and collects the destination of every
// image node the markdown parser actually recognizes.
func imageDestinations(content string) map[string]struct{} {
	source := []byte(content)
	reader := text.NewReader(source)
	doc := goldmark.DefaultParser().Parse(reader)

	destinations := make(map[string]struct{})
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindImage {
			img := n.(*ast.Image)
			target := string(img.Destination)
			if decoded, err := url.PathUnescape(target); err == nil {
				target = decoded
			}
			destinations[target] = struct{}{}
		}
		return ast.WalkContinue, nil
	})
	return destinations
}

// altWidth extracts the trailing |width convention from markdown alt text.
func altWidth(alt string) string {
	if idx := strings.LastIndexByte(alt, '|'); idx >= 0 {
		return alt[idx+1:]
	}
	return ""
}

func parseWidth(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	width, err := strconv.Atoi(s)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// WikiEmbed renders a wiki-style embed for target, with an optional display
// width suffix.
func WikiEmbed(target string, width int) string {
	if width > 0 {
		return "![[" + target + "|" + strconv.Itoa(width) + "]]"
	}
	return "![[" + target + "]]"
}

// ReplaceEmbed swaps the first occurrence of oldMarkup for newMarkup. The
// second return value reports whether a replacement happened.
func ReplaceEmbed(content, oldMarkup, newMarkup string) (string, bool) {
	if oldMarkup == "" || !strings.Contains(content, oldMarkup) {
		return content, false
	}
	return strings.Replace(content, oldMarkup, newMarkup, 1), true
}
