package report

import (
	"encoding/json"
	"fmt"

	"github.com/seo-optimizer/contentlens/analyzer"
)

// JSONRenderer produces the structured data export.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the report indented by two spaces.
func (JSONRenderer) Render(r *analyzer.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

func (JSONRenderer) Extension() string   { return ".json" }
func (JSONRenderer) Filename() string    { return "seo-analysis.json" }
func (JSONRenderer) ContentType() string { return "application/json" }
