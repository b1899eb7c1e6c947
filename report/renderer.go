// Package report renders an analysis report into its export formats: the
// JSON data export, the Markdown content export, the full Markdown report
// and a PDF version of the full report.
package report

import (
	"fmt"
	"strings"

	"github.com/seo-optimizer/contentlens/analyzer"
)

// Renderer converts a report into one export format.
type Renderer interface {
	Render(r *analyzer.Report) ([]byte, error)
	// Extension returns the file extension, e.g. ".md".
	Extension() string
	// Filename returns the conventional export filename.
	Filename() string
	ContentType() string
}

// Format names accepted by ByFormat.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatReport   = "report"
	FormatPDF      = "pdf"
)

// Formats lists every export format in a stable order.
var Formats = []string{FormatJSON, FormatMarkdown, FormatReport, FormatPDF}

// ByFormat returns the renderer for a format name.
func ByFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatMarkdown, "md":
		return NewMarkdownRenderer(), nil
	case FormatReport:
		return NewFullReportRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}
