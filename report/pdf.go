package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/seo-optimizer/contentlens/analyzer"
)

// PDFRenderer lays the full report out as an A4 PDF.
type PDFRenderer struct {
	full FullReportRenderer
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the full report Markdown line by line: headings get
// larger bold fonts, list items become bullets, the rest is body text.
func (p PDFRenderer) Render(r *analyzer.Report) ([]byte, error) {
	md, err := p.full.Render(r)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("SEO Analysis Report", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(string(md), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			renderHeading(pdf, tr(strings.TrimSpace(trimmed[level:])), level)
		case strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+trimmed[2:]), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(trimmed), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (PDFRenderer) Extension() string   { return ".pdf" }
func (PDFRenderer) Filename() string    { return "seo-full-report.pdf" }
func (PDFRenderer) ContentType() string { return "application/pdf" }

func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13}
	size, ok := sizes[level]
	if !ok {
		size = 11
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}
