package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seo-optimizer/contentlens/analyzer"
)

// TopKeywords is the number of keywords listed in the full report.
const TopKeywords = 20

// FullReportRenderer produces the human-readable report.
type FullReportRenderer struct{}

// NewFullReportRenderer creates a FullReportRenderer.
func NewFullReportRenderer() *FullReportRenderer {
	return &FullReportRenderer{}
}

// Render writes the report sections in a fixed order. The output depends
// only on the report, so equal reports render to equal bytes.
func (FullReportRenderer) Render(r *analyzer.Report) ([]byte, error) {
	var b strings.Builder
	rs := r.ReadabilityStats

	b.WriteString("# SEO Analysis Report\n")
	fmt.Fprintf(&b, "Generated for: %s\n", r.URL)
	fmt.Fprintf(&b, "Date: %s\n", reportDate(r.Timestamp))

	b.WriteString("\n## Readability Analysis\n")
	fmt.Fprintf(&b, "- Flesch Reading Ease: %d (%s)\n", rs.FleschScore, rs.ReadingLevel)
	fmt.Fprintf(&b, "- Word Count: %d\n", rs.WordCount)
	fmt.Fprintf(&b, "- Sentence Count: %d\n", rs.SentenceCount)
	fmt.Fprintf(&b, "- Average Sentence Length: %s\n", number(rs.AvgSentenceLength))
	fmt.Fprintf(&b, "- Average Syllables per Word: %s\n", number(rs.AvgSyllablesPerWord))
	fmt.Fprintf(&b, "- Long Sentences: %d\n", rs.LongSentenceCount)

	b.WriteString("\n## Top Keywords\n")
	for _, kw := range r.Keywords.Top(TopKeywords) {
		fmt.Fprintf(&b, "- %s: %s%% (%d occurrences)", kw.Word, number(kw.Density.Density), kw.Frequency)
		if kw.InHeadings {
			b.WriteString(" (Used in headings)")
		}
		b.WriteByte('\n')
	}

	m := r.MetaInfo
	b.WriteString("\n## Meta Information\n")
	fmt.Fprintf(&b, "- Title: %s\n", m.Title)
	fmt.Fprintf(&b, "- Description: %s\n", m.Description)
	fmt.Fprintf(&b, "- Keywords: %s\n", m.Keywords)
	fmt.Fprintf(&b, "- Canonical URL: %s\n", m.Canonical)
	for _, og := range m.OGTags {
		fmt.Fprintf(&b, "- %s: %s\n", og.Property, og.Content)
	}

	t := r.TechnicalSEO
	b.WriteString("\n## Technical SEO Analysis\n")
	b.WriteString("### Images\n")
	fmt.Fprintf(&b, "- Total Images: %d\n", t.Images.Total)
	fmt.Fprintf(&b, "- Images Missing Alt Text: %d\n", t.Images.MissingAlt)
	b.WriteString("\n### Links\n")
	fmt.Fprintf(&b, "- Internal Links: %d\n", t.Links.Internal)
	fmt.Fprintf(&b, "- External Links: %d\n", t.Links.External)
	fmt.Fprintf(&b, "- Broken Links: %d\n", t.Links.Broken)
	b.WriteString("\n### Heading Structure\n")
	fmt.Fprintf(&b, "- H1 Tags: %d\n", t.Headings.H1)
	fmt.Fprintf(&b, "- H2 Tags: %d\n", t.Headings.H2)
	fmt.Fprintf(&b, "- H3 Tags: %d\n", t.Headings.H3)
	b.WriteString("\n### Other Checks\n")
	structured := "Not found"
	if t.HasStructuredData {
		structured = "Present"
	}
	fmt.Fprintf(&b, "- Structured Data: %s\n", structured)

	b.WriteString("\n## Recommendations\n")
	recs := analyzer.Recommend(r)
	if len(recs) == 0 {
		b.WriteString("- No issues found\n")
	}
	for _, rec := range recs {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	return []byte(b.String()), nil
}

func (FullReportRenderer) Extension() string   { return ".md" }
func (FullReportRenderer) Filename() string    { return "seo-full-report.md" }
func (FullReportRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

// number formats a rounded metric with the fewest digits that represent it.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// reportDate returns the calendar date of a report timestamp.
func reportDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
