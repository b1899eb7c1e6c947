package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinTitleLength       = 30
	MaxTitleLength       = 60
	MinDescriptionLength = 120
	MaxDescriptionLength = 160
	MinFleschScore       = 60
)

// Recommend lists the improvements suggested for a report, in a fixed order:
// title, description, H1 count, image alt text, readability, keyword stuffing.
func Recommend(r *Report) []string {
	recs := []string{}

	if n := utf8.RuneCountInString(r.MetaInfo.Title); n < MinTitleLength || n > MaxTitleLength {
		recs = append(recs, "Adjust title length to be between 30-60 characters")
	}

	if n := utf8.RuneCountInString(r.MetaInfo.Description); n < MinDescriptionLength || n > MaxDescriptionLength {
		recs = append(recs, "Optimize meta description length to be between 120-160 characters")
	}

	if r.TechnicalSEO.Headings.H1 != 1 {
		recs = append(recs, "Ensure page has exactly one H1 tag")
	}

	if missing := r.TechnicalSEO.Images.MissingAlt; missing > 0 {
		recs = append(recs, fmt.Sprintf("Add alt text to %d images", missing))
	}

	if r.ReadabilityStats.Computable() && r.ReadabilityStats.FleschScore < MinFleschScore {
		recs = append(recs, "Improve readability by using shorter sentences and simpler words")
	}

	if overused := r.Keywords.Overused(); len(overused) > 0 {
		recs = append(recs, "Review potential keyword stuffing for: "+strings.Join(overused, ", "))
	}

	return recs
}
