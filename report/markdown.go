package report

import (
	"strings"

	"github.com/seo-optimizer/contentlens/analyzer"
)

// MarkdownRenderer exports the readable content of the page: headings as
// ATX headings of their source level, paragraphs as plain text.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render joins the blocks with blank lines.
func (MarkdownRenderer) Render(r *analyzer.Report) ([]byte, error) {
	parts := make([]string, len(r.Blocks))
	for i, b := range r.Blocks {
		if level := b.Level(); level > 0 {
			parts[i] = strings.Repeat("#", level) + " " + b.Content
			continue
		}
		parts[i] = b.Content
	}
	return []byte(strings.Join(parts, "\n\n")), nil
}

func (MarkdownRenderer) Extension() string   { return ".md" }
func (MarkdownRenderer) Filename() string    { return "webpage-content.md" }
func (MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }
