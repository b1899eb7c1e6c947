package analyzer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/fetch"
	"github.com/seo-optimizer/contentlens/stats"
	"github.com/seo-optimizer/contentlens/textstat"
)

const brewPage = `<!DOCTYPE html>
<html>
<head>
	<title>Simple Guide To Brewing Great Coffee At Home!</title>
	<meta name="description" content="Learn how to brew a great cup of coffee at home with fresh beans, hot water and a little patience...">
</head>
<body>
	<script>var tracking = "ignored words here";</script>
	<h1>Brew Good Coffee</h1>
	<p>Use fresh beans and grind them well. Pour hot water slowly over the grounds. Wait four minutes before you press. Enjoy the cup with a friend who likes warm drinks on cold days.</p>
	<a href="/beans">Beans</a>
	<a href="https://shop.example.org/grinders">Grinders</a>
</body>
</html>`

var fixedTime = time.Date(2024, 5, 17, 9, 30, 15, 123456789, time.FixedZone("CEST", 2*60*60))

type recorder struct {
	mu    sync.Mutex
	total stats.Delta
}

func (r *recorder) Increment(d stats.Delta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total.Analyses += d.Analyses
	r.total.AnalysisFailures += d.AnalysisFailures
}

type countingChecker struct {
	targets []string
}

func (c *countingChecker) CountBroken(_ context.Context, targets []string) int {
	c.targets = targets
	return 1
}

func newAnalyzer(opts ...analyzer.Option) *analyzer.Analyzer {
	opts = append([]analyzer.Option{analyzer.WithClock(func() time.Time { return fixedTime })}, opts...)
	return analyzer.New(opts...)
}

func TestAnalyzeHTML(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	r, err := newAnalyzer(analyzer.WithStats(rec)).AnalyzeHTML(context.Background(), brewPage, "https://example.com/guide")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/guide", r.URL)
	assert.Equal(t, "2024-05-17T07:30:15.123Z", r.Timestamp)

	require.Len(t, r.Blocks, 2)
	assert.Equal(t, "h1", r.Blocks[0].Tag)
	assert.Equal(t, "Brew Good Coffee", r.Blocks[0].Content)
	assert.Equal(t, "p", r.Blocks[1].Tag)

	assert.Equal(t, textstat.Stats{
		FleschScore:         97,
		ReadingLevel:        textstat.VeryEasy,
		WordCount:           36,
		SentenceCount:       4,
		AvgSentenceLength:   9.0,
		LongSentenceCount:   0,
		AvgSyllablesPerWord: 1.2,
	}, r.ReadabilityStats)

	assert.Len(t, r.WordFrequency, 28)
	assert.NotContains(t, r.WordFrequency, "over")
	assert.NotContains(t, r.WordFrequency, "tracking")
	assert.NotContains(t, r.WordFrequency, "the")
	coffee := r.KeywordDensity["coffee"]
	assert.Equal(t, 1, coffee.Frequency)
	assert.Equal(t, 2.78, coffee.Density)
	assert.True(t, coffee.InHeadings)
	assert.False(t, r.KeywordDensity["beans"].InHeadings)

	assert.Equal(t, "Simple Guide To Brewing Great Coffee At Home!", r.MetaInfo.Title)
	assert.Equal(t, 1, r.TechnicalSEO.Headings.H1)
	assert.Equal(t, 1, r.TechnicalSEO.Links.Internal)
	assert.Equal(t, 1, r.TechnicalSEO.Links.External)
	assert.Equal(t, 0, r.TechnicalSEO.Links.Broken)

	assert.Equal(t, []string{
		"Optimize meta description length to be between 120-160 characters",
	}, analyzer.Recommend(r))

	assert.Equal(t, 1, rec.total.Analyses)
}

func TestAnalyzeHTML_Idempotent(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()

	first, err := a.AnalyzeHTML(context.Background(), brewPage, "https://example.com/guide")
	require.NoError(t, err)
	second, err := a.AnalyzeHTML(context.Background(), brewPage, "https://example.com/guide")
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestAnalyzeHTML_JSONShape(t *testing.T) {
	t.Parallel()

	r, err := newAnalyzer().AnalyzeHTML(context.Background(), brewPage, "https://example.com/guide")
	require.NoError(t, err)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &shape))

	keys := make([]string, 0, len(shape))
	for k := range shape {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"wordFrequency", "keywordDensity", "readabilityStats",
		"metaInfo", "technicalSEO", "url", "timestamp",
	}, keys)
}

func TestAnalyzeHTML_EmptyDocument(t *testing.T) {
	t.Parallel()

	r, err := newAnalyzer().AnalyzeHTML(context.Background(), "", "https://example.com/")
	require.NoError(t, err)

	assert.Empty(t, r.Blocks)
	assert.NotNil(t, r.WordFrequency)
	assert.Empty(t, r.WordFrequency)
	assert.NotNil(t, r.KeywordDensity)
	assert.Equal(t, textstat.NotComputable, r.ReadabilityStats.ReadingLevel)
	assert.Equal(t, 0, r.ReadabilityStats.FleschScore)

	assert.Equal(t, []string{
		"Adjust title length to be between 30-60 characters",
		"Optimize meta description length to be between 120-160 characters",
		"Ensure page has exactly one H1 tag",
	}, analyzer.Recommend(r))
}

func TestAnalyzeDocument_DoesNotMutate(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brewPage))
	require.NoError(t, err)
	before, err := doc.Html()
	require.NoError(t, err)

	newAnalyzer().AnalyzeDocument(context.Background(), doc, "https://example.com/guide")

	after, err := doc.Html()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAnalyzeDocument_LinkChecker(t *testing.T) {
	t.Parallel()

	checker := &countingChecker{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brewPage))
	require.NoError(t, err)

	r := newAnalyzer(analyzer.WithLinkChecker(checker)).AnalyzeDocument(context.Background(), doc, "https://example.com/guide")

	assert.Equal(t, 1, r.TechnicalSEO.Links.Broken)
	assert.Equal(t, []string{"https://example.com/beans", "https://shop.example.org/grinders"}, checker.targets)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(brewPage))
	}))
	t.Cleanup(srv.Close)

	t.Run("fetches and analyzes", func(t *testing.T) {
		t.Parallel()

		r, err := newAnalyzer(analyzer.WithFetcher(fetch.NewHTTP())).Analyze(context.Background(), srv.URL+"/guide", false)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/guide", r.URL)
		assert.Equal(t, 36, r.ReadabilityStats.WordCount)
	})

	t.Run("fetch failure", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		a := newAnalyzer(analyzer.WithFetcher(fetch.NewHTTP()), analyzer.WithStats(rec))

		_, err := a.Analyze(context.Background(), srv.URL+"/missing", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
		assert.NotErrorIs(t, err, analyzer.ErrInvalidURL)
		assert.Equal(t, 1, rec.total.AnalysisFailures)
		assert.Equal(t, 0, rec.total.Analyses)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer(analyzer.WithFetcher(fetch.NewHTTP()))
		for _, u := range []string{"", "example.com", "ftp://example.com/file", "https://"} {
			_, err := a.Analyze(context.Background(), u, false)
			assert.ErrorIs(t, err, analyzer.ErrInvalidURL, u)
		}
	})

	t.Run("render without browser", func(t *testing.T) {
		t.Parallel()

		_, err := newAnalyzer(analyzer.WithFetcher(fetch.NewHTTP())).Analyze(context.Background(), srv.URL, true)
		assert.ErrorIs(t, err, analyzer.ErrRenderUnavailable)
	})
}
