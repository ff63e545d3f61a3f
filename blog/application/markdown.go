package application

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const excerptMaxLength = 200

// MarkdownRenderer defines the interface for converting markdown to HTML.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// GoldmarkRenderer renders GFM markdown and sanitizes the output for
// embedding in untrusted contexts.
type GoldmarkRenderer struct {
	renderer  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewMarkdownRenderer() *GoldmarkRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &GoldmarkRenderer{
		renderer:  renderer,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (r *GoldmarkRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return r.sanitizer.Sanitize(buf.String()), nil
}

// ExtractExcerpt pulls the first prose paragraph out of markdown content,
// skipping headings, lists, tables, code fences and rules. Used when a post
// is created without an explicit excerpt.
func ExtractExcerpt(markdown string) string {
	lines := strings.Split(markdown, "\n")
	var paragraphLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "***") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			strings.HasPrefix(trimmed, ">") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	if len(paragraphLines) == 0 {
		return ""
	}

	excerpt := strings.Join(paragraphLines, " ")

	if len(excerpt) > excerptMaxLength {
		cut := excerptMaxLength
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
		if lastSpace := strings.LastIndexAny(excerpt, " \t"); lastSpace > 0 {
			excerpt = excerpt[:lastSpace]
		}
		excerpt += "..."
	}

	return excerpt
}
