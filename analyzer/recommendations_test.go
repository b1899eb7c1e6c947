package analyzer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/audit"
	"github.com/seo-optimizer/contentlens/extract"
	"github.com/seo-optimizer/contentlens/keywords"
	"github.com/seo-optimizer/contentlens/textstat"
)

func goodReport() *analyzer.Report {
	r := &analyzer.Report{
		MetaInfo: audit.MetaInfo{
			Title:       strings.Repeat("t", 45),
			Description: strings.Repeat("d", 140),
		},
		ReadabilityStats: textstat.Stats{FleschScore: 72, ReadingLevel: textstat.FairlyEasy},
	}
	r.TechnicalSEO.Headings.H1 = 1
	return r
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	t.Run("nothing to fix", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, analyzer.Recommend(goodReport()))
	})

	t.Run("length bounds are inclusive", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{30, 60} {
			r := goodReport()
			r.MetaInfo.Title = strings.Repeat("é", n)
			assert.Empty(t, analyzer.Recommend(r), n)
		}
		for _, n := range []int{120, 160} {
			r := goodReport()
			r.MetaInfo.Description = strings.Repeat("d", n)
			assert.Empty(t, analyzer.Recommend(r), n)
		}

		r := goodReport()
		r.MetaInfo.Title = strings.Repeat("t", 61)
		assert.Equal(t, []string{"Adjust title length to be between 30-60 characters"}, analyzer.Recommend(r))
	})

	t.Run("all recommendations in order", func(t *testing.T) {
		t.Parallel()

		r := &analyzer.Report{
			ReadabilityStats: textstat.Stats{FleschScore: 42, ReadingLevel: textstat.Difficult},
			Keywords: keywords.Analyze([]extract.TextBlock{
				{Tag: "p", Content: "seo tips seo tricks seo tools"},
			}),
		}
		r.TechnicalSEO.Headings.H1 = 2
		r.TechnicalSEO.Images.MissingAlt = 3

		assert.Equal(t, []string{
			"Adjust title length to be between 30-60 characters",
			"Optimize meta description length to be between 120-160 characters",
			"Ensure page has exactly one H1 tag",
			"Add alt text to 3 images",
			"Improve readability by using shorter sentences and simpler words",
			"Review potential keyword stuffing for: seo, tips, tricks, tools",
		}, analyzer.Recommend(r))
	})

	t.Run("uncomputable readability is not flagged", func(t *testing.T) {
		t.Parallel()

		r := goodReport()
		r.ReadabilityStats = textstat.Stats{ReadingLevel: textstat.NotComputable}
		assert.Empty(t, analyzer.Recommend(r))
	})
}
