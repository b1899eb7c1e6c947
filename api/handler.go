// Package api exposes the analyzer over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/definitions"
	"github.com/seo-optimizer/contentlens/keywords"
	"github.com/seo-optimizer/contentlens/logging"
	"github.com/seo-optimizer/contentlens/middleware"
	"github.com/seo-optimizer/contentlens/report"
	"github.com/seo-optimizer/contentlens/stats"
)

const (
	maxHTMLBytes   = 10 << 20
	topKeywords    = 20
	wordCloudWords = 100
)

// Handler serves the /api routes.
type Handler struct {
	analyzer    *analyzer.Analyzer
	definitions *definitions.Client
	statistics  *logging.Statistics
	usage       *stats.Storage
	logger      zerolog.Logger
}

// NewHandler creates a Handler. statistics and usage may be nil.
func NewHandler(a *analyzer.Analyzer, defs *definitions.Client, statistics *logging.Statistics, usage *stats.Storage, logger zerolog.Logger) *Handler {
	return &Handler{
		analyzer:    a,
		definitions: defs,
		statistics:  statistics,
		usage:       usage,
		logger:      logger,
	}
}

// Register mounts the routes on group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/health", h.health)
	group.POST("/analyze", h.analyzeURL)
	group.POST("/analyze/html", h.analyzeHTML)
	group.POST("/definitions", h.lookupDefinitions)
	group.GET("/statistics", h.getStatistics)
}

type analyzeURLRequest struct {
	URL    string `json:"url" binding:"required,url"`
	Render bool   `json:"render"`
	Format string `json:"format"`
}

type analyzeHTMLRequest struct {
	HTML   string `json:"html" binding:"required"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

type definitionsRequest struct {
	Words []string `json:"words" binding:"required,min=1,max=50,dive,required"`
}

// analysisResponse is the default API view: the report plus the derived
// lists an overlay needs.
type analysisResponse struct {
	*analyzer.Report
	Recommendations []string           `json:"recommendations"`
	TopKeywords     []keywords.Keyword `json:"topKeywords"`
	WordCloud       []keywords.Keyword `json:"wordCloud"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) analyzeURL(c *gin.Context) {
	var req analyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	renderer, ok := h.renderer(c, req.Format)
	if !ok {
		return
	}
	c.Set(middleware.PageURLKey, req.URL)

	r, err := h.analyzer.Analyze(c.Request.Context(), req.URL, req.Render)
	switch {
	case errors.Is(err, analyzer.ErrInvalidURL), errors.Is(err, analyzer.ErrRenderUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to analyze URL: " + err.Error()})
		return
	}

	h.respond(c, r, renderer)
}

func (h *Handler) analyzeHTML(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxHTMLBytes)

	var req analyzeHTMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "HTML document required"})
		return
	}
	if req.URL != "" {
		if err := analyzer.ValidateURL(req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	renderer, ok := h.renderer(c, req.Format)
	if !ok {
		return
	}
	c.Set(middleware.PageURLKey, req.URL)

	r, err := h.analyzer.AnalyzeHTML(c.Request.Context(), req.HTML, req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, r, renderer)
}

// renderer resolves the requested export format. A nil renderer selects
// the default JSON view.
func (h *Handler) renderer(c *gin.Context, format string) (report.Renderer, bool) {
	if format == "" {
		return nil, true
	}
	renderer, err := report.ByFormat(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return renderer, true
}

func (h *Handler) respond(c *gin.Context, r *analyzer.Report, renderer report.Renderer) {
	if renderer == nil {
		c.JSON(http.StatusOK, analysisResponse{
			Report:          r,
			Recommendations: analyzer.Recommend(r),
			TopKeywords:     r.Keywords.Top(topKeywords),
			WordCloud:       r.Keywords.TopByFrequency(wordCloudWords),
		})
		return
	}

	data, err := renderer.Render(r)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", renderer.Filename()))
	c.Data(http.StatusOK, renderer.ContentType(), data)
}

func (h *Handler) lookupDefinitions(c *gin.Context) {
	var req definitionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide between 1 and 50 words"})
		return
	}

	words := make([]string, 0, len(req.Words))
	for _, w := range req.Words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide between 1 and 50 words"})
		return
	}

	c.JSON(http.StatusOK, h.definitions.LookupAll(c.Request.Context(), definitions.NewCache(), words))
}

func (h *Handler) getStatistics(c *gin.Context) {
	resp := gin.H{}
	if h.statistics != nil {
		resp["requests"] = h.statistics.GetStatistics()
	}
	if h.usage != nil {
		resp["usage"] = h.usage.GetCurrentStats()
	}
	c.JSON(http.StatusOK, resp)
}
