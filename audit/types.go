package audit

// MetaInfo is a snapshot of the document's head metadata.
type MetaInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Keywords    string  `json:"keywords"`
	Canonical   string  `json:"canonical"`
	OGTags      []OGTag `json:"ogTags"`
}

// OGTag is one Open Graph meta tag.
type OGTag struct {
	Property string `json:"property"`
	Content  string `json:"content"`
}

// TechnicalSEO is a snapshot of the document's structural counts.
type TechnicalSEO struct {
	Images            ImageStats   `json:"images"`
	Links             LinkStats    `json:"links"`
	Headings          HeadingStats `json:"headings"`
	HasStructuredData bool         `json:"hasStructuredData"`
}

type ImageStats struct {
	Total      int `json:"total"`
	MissingAlt int `json:"missingAlt"`
}

type LinkStats struct {
	Internal int `json:"internal"`
	External int `json:"external"`
	// Broken stays 0 unless a link check ran.
	Broken int `json:"broken"`
}

type HeadingStats struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}
