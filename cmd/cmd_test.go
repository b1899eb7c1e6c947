package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/api"
	"github.com/seo-optimizer/contentlens/config"
	"github.com/seo-optimizer/contentlens/definitions"
	"github.com/seo-optimizer/contentlens/logging"
	"github.com/seo-optimizer/contentlens/middleware"
)

const page = `<html><head><title>Tea Notes</title></head>
<body><h1>Green Tea</h1><p>Green tea is calm. Brew green tea gently!</p>
<a href="/brew">Brew</a></body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCmd_File(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tea.html")
	require.NoError(t, os.WriteFile(src, []byte(page), 0644))
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "analyze", src, "--file", "--url", "https://example.com/tea", "--output_dir", outDir, "--log-level", "error")
	require.NoError(t, err)

	pageDir := filepath.Join(outDir, "example_com_tea")
	for _, name := range []string{"seo-analysis.json", "webpage-content.md", "seo-full-report.md", "seo-full-report.pdf"} {
		assert.FileExists(t, filepath.Join(pageDir, name))
		assert.Contains(t, out, filepath.Join(pageDir, name))
	}
	assert.Contains(t, out, "Flesch Reading Ease: 109 (Very Easy), 10 words")
	assert.Contains(t, out, "- Review potential keyword stuffing for: green, tea, calm, brew, gently")

	md, err := os.ReadFile(filepath.Join(pageDir, "webpage-content.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Green Tea\n\nGreen tea is calm. Brew green tea gently!", string(md))

	data, err := os.ReadFile(filepath.Join(pageDir, "seo-analysis.json"))
	require.NoError(t, err)
	var r analyzer.Report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, 1, r.TechnicalSEO.Links.Internal)
}

func TestAnalyzeCmd_SingleFormatWithoutURL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tea.html")
	require.NoError(t, os.WriteFile(src, []byte(page), 0644))

	_, err := run(t, "analyze", src, "--file", "--format", "report", "--output_dir", dir, "--log-level", "error")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "tea_html", "seo-full-report.md"))
	assert.NoFileExists(t, filepath.Join(dir, "tea_html", "seo-analysis.json"))
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "analyze", "https://example.com", "--format", "docx", "--output_dir", dir)
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "analyze", filepath.Join(dir, "missing.html"), "--file", "--output_dir", dir)
	assert.ErrorContains(t, err, "reading")

	_, err = run(t, "analyze", "example.com", "--output_dir", dir)
	assert.ErrorIs(t, err, analyzer.ErrInvalidURL)

	_, err = run(t, "analyze")
	assert.Error(t, err)
}

func TestAnalyzeCmd_Define(t *testing.T) {
	dict := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"meanings":[{"partOfSpeech":"adjective","definitions":[{"definition":"Of the colour green."}],"synonyms":[]}]}]`))
	}))
	defer dict.Close()
	t.Setenv("DICTIONARY_URL", dict.URL)

	dir := t.TempDir()
	src := filepath.Join(dir, "tea.html")
	require.NoError(t, os.WriteFile(src, []byte(page), 0644))

	_, err := run(t, "analyze", src, "--file", "--format", "json", "--define", "2", "--output_dir", dir, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "tea_html", "definitions.json"))
	require.NoError(t, err)

	var defs map[string]definitions.Definition
	require.NoError(t, json.Unmarshal(data, &defs))
	assert.Len(t, defs, 2)
	assert.Equal(t, "adjective", defs["green"].PartOfSpeech)
	assert.Contains(t, defs, "tea")
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a := &app{cfg: config.Default(), logger: zerolog.Nop()}
	statistics, err := logging.NewStatistics(filepath.Join(t.TempDir(), "statistics.json"), false)
	require.NoError(t, err)

	handler := api.NewHandler(analyzer.New(), definitions.NewClient(), statistics, nil, zerolog.Nop())
	router := a.newRouter(handler, middleware.NewRateLimiter(1, 2), statistics)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
