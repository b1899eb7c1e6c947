package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/report"
)

const teaPage = `<html><head>
<title>Tea Notes</title>
<meta property="og:title" content="Tea">
</head><body>
<h1>Green Tea</h1>
<p>Green tea is calm. Brew green tea gently!</p>
<img src="cup.png">
</body></html>`

const teaReport = `# SEO Analysis Report
Generated for: https://example.com/tea
Date: 2024-05-17

## Readability Analysis
- Flesch Reading Ease: 109 (Very Easy)
- Word Count: 10
- Sentence Count: 2
- Average Sentence Length: 5
- Average Syllables per Word: 1.1
- Long Sentences: 0

## Top Keywords
- green: 30% (3 occurrences) (Used in headings)
- tea: 30% (3 occurrences) (Used in headings)
- calm: 10% (1 occurrences)
- brew: 10% (1 occurrences)
- gently: 10% (1 occurrences)

## Meta Information
- Title: Tea Notes
- Description: 
- Keywords: 
- Canonical URL: 
- og:title: Tea

## Technical SEO Analysis
### Images
- Total Images: 1
- Images Missing Alt Text: 1

### Links
- Internal Links: 0
- External Links: 0
- Broken Links: 0

### Heading Structure
- H1 Tags: 1
- H2 Tags: 0
- H3 Tags: 0

### Other Checks
- Structured Data: Not found

## Recommendations
- Adjust title length to be between 30-60 characters
- Optimize meta description length to be between 120-160 characters
- Add alt text to 1 images
- Review potential keyword stuffing for: green, tea, calm, brew, gently
`

func analyze(t *testing.T, html string) *analyzer.Report {
	t.Helper()
	a := analyzer.New(analyzer.WithClock(func() time.Time {
		return time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC)
	}))
	r, err := a.AnalyzeHTML(context.Background(), html, "https://example.com/tea")
	require.NoError(t, err)
	return r
}

func TestFullReportRenderer(t *testing.T) {
	t.Parallel()

	r := analyze(t, teaPage)
	got, err := report.NewFullReportRenderer().Render(r)
	require.NoError(t, err)
	assert.Equal(t, teaReport, string(got))

	again, err := report.NewFullReportRenderer().Render(analyze(t, teaPage))
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFullReportRenderer_NoIssues(t *testing.T) {
	t.Parallel()

	r := &analyzer.Report{Timestamp: "2024-01-02T03:04:05.000Z"}
	r.MetaInfo.Title = "A title that is comfortably long enough"
	r.MetaInfo.Description = string(bytes.Repeat([]byte("d"), 130))
	r.TechnicalSEO.Headings.H1 = 1
	r.ReadabilityStats.ReadingLevel = "Standard"
	r.ReadabilityStats.FleschScore = 65

	got, err := report.NewFullReportRenderer().Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(got), "Date: 2024-01-02\n")
	assert.Contains(t, string(got), "## Recommendations\n- No issues found\n")
}

func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	got, err := report.NewMarkdownRenderer().Render(analyze(t, `<body>
		<h2>Intro</h2><p>First paragraph.</p><h4>Deep</h4><p>Second.</p>
	</body>`))
	require.NoError(t, err)
	assert.Equal(t, "## Intro\n\nFirst paragraph.\n\n#### Deep\n\nSecond.", string(got))

	empty, err := report.NewMarkdownRenderer().Render(analyze(t, ""))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	got, err := report.NewJSONRenderer().Render(analyze(t, teaPage))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(got, []byte("{\n  \"wordFrequency\": {\n    \"brew\": 1,")))
	assert.Contains(t, string(got), "\"timestamp\": \"2024-05-17T23:59:00.000Z\"")
	assert.Contains(t, string(got), "\"green\": {\n      \"density\": 30,\n      \"frequency\": 3,\n      \"inHeadings\": true,\n      \"isOverused\": true\n    }")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, "https://example.com/tea", decoded["url"])
	assert.NotContains(t, decoded, "Blocks")
}

func TestPDFRenderer(t *testing.T) {
	t.Parallel()

	got, err := report.NewPDFRenderer().Render(analyze(t, teaPage))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte("%PDF-")))
}

func TestByFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"json":     "seo-analysis.json",
		"markdown": "webpage-content.md",
		"MD":       "webpage-content.md",
		"report":   "seo-full-report.md",
		"pdf":      "seo-full-report.pdf",
	}
	for name, filename := range tests {
		r, err := report.ByFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, filename, r.Filename())
	}

	_, err := report.ByFormat("docx")
	assert.ErrorContains(t, err, "unknown format")
}
