package analyzer

import (
	"github.com/seo-optimizer/contentlens/audit"
	"github.com/seo-optimizer/contentlens/extract"
	"github.com/seo-optimizer/contentlens/keywords"
	"github.com/seo-optimizer/contentlens/textstat"
)

// TimestampFormat is the layout of Report.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Report represents the complete analysis of a webpage
type Report struct {
	WordFrequency    map[string]int              `json:"wordFrequency"`
	KeywordDensity   map[string]keywords.Density `json:"keywordDensity"`
	ReadabilityStats textstat.Stats              `json:"readabilityStats"`
	MetaInfo         audit.MetaInfo              `json:"metaInfo"`
	TechnicalSEO     audit.TechnicalSEO          `json:"technicalSEO"`
	URL              string                      `json:"url"`
	Timestamp        string                      `json:"timestamp"`

	// Blocks is the readable view of the page in document order.
	Blocks []extract.TextBlock `json:"-"`
	// Keywords keeps the first-appearance order of WordFrequency.
	Keywords keywords.Result `json:"-"`
}
