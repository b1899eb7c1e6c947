// Package keywords computes word frequency and keyword density over the
// text blocks of a document and flags words that look over-optimized.
package keywords

import (
	"sort"
	"strings"

	"github.com/seo-optimizer/contentlens/extract"
	"github.com/seo-optimizer/contentlens/textstat"
)

// OveruseThreshold is the density, in percent, above which a word is
// flagged as potential keyword stuffing.
const OveruseThreshold = 5.0

// MinWordLength is the shortest word kept in the frequency map.
const MinWordLength = 3

// stopwords are excluded from the frequency map. Changing the set changes
// every report, so it stays fixed.
var stopwords = map[string]bool{
	"the": true, "be": true, "to": true, "of": true, "and": true,
	"a": true, "in": true, "that": true, "have": true, "i": true,
	"it": true, "for": true, "not": true, "on": true, "with": true,
	"he": true, "as": true, "you": true, "do": true, "at": true,
	"this": true, "but": true, "his": true, "by": true, "from": true,
	"they": true, "we": true, "say": true, "her": true, "she": true,
	"over": true,
}

// IsStopword reports whether word is excluded from frequency counting.
func IsStopword(word string) bool {
	return stopwords[word]
}

// Density describes how one word is used across the document.
type Density struct {
	Density    float64 `json:"density"`
	Frequency  int     `json:"frequency"`
	InHeadings bool    `json:"inHeadings"`
	IsOverused bool    `json:"isOverused"`
}

// Keyword pairs a word with its density data.
type Keyword struct {
	Word string `json:"word"`
	Density
}

// Result holds the frequency and density maps of one analysis.
type Result struct {
	// TotalWords counts every token, stopwords included.
	TotalWords int
	Frequency  map[string]int
	Density    map[string]Density
	// Words lists the keys of Frequency in order of first appearance.
	Words []string
}

// Analyze tokenizes the concatenated block contents and computes the
// frequency and density of every word longer than two characters that is
// not a stopword. A document without tokens yields empty maps.
func Analyze(blocks []extract.TextBlock) Result {
	res := Result{
		Frequency: make(map[string]int),
		Density:   make(map[string]Density),
		Words:     []string{},
	}

	contents := make([]string, len(blocks))
	headingWords := make(map[string]bool)
	for i, b := range blocks {
		contents[i] = b.Content
		if b.IsHeading {
			for _, w := range textstat.TokenizeWords(b.Content) {
				headingWords[w] = true
			}
		}
	}

	tokens := textstat.TokenizeWords(strings.Join(contents, " "))
	res.TotalWords = len(tokens)
	if res.TotalWords == 0 {
		return res
	}

	for _, w := range tokens {
		if len(w) < MinWordLength || stopwords[w] {
			continue
		}
		if res.Frequency[w] == 0 {
			res.Words = append(res.Words, w)
		}
		res.Frequency[w]++
	}

	for _, w := range res.Words {
		freq := res.Frequency[w]
		density := textstat.Round(float64(freq)/float64(res.TotalWords)*100, 2)
		res.Density[w] = Density{
			Density:    density,
			Frequency:  freq,
			InHeadings: headingWords[w],
			IsOverused: density > OveruseThreshold,
		}
	}

	return res
}

// Top returns up to n keywords ordered by density, highest first. Ties keep
// the order in which the words first appear. n <= 0 returns all keywords.
func (r Result) Top(n int) []Keyword {
	kws := r.keywords()
	sort.SliceStable(kws, func(i, j int) bool {
		return kws[i].Density.Density > kws[j].Density.Density
	})
	return limit(kws, n)
}

// TopByFrequency returns up to n keywords ordered by occurrence count,
// highest first, with ties in order of first appearance.
func (r Result) TopByFrequency(n int) []Keyword {
	kws := r.keywords()
	sort.SliceStable(kws, func(i, j int) bool {
		return kws[i].Frequency > kws[j].Frequency
	})
	return limit(kws, n)
}

// Overused returns the words whose density exceeds OveruseThreshold, in
// order of first appearance.
func (r Result) Overused() []string {
	var words []string
	for _, w := range r.Words {
		if r.Density[w].IsOverused {
			words = append(words, w)
		}
	}
	return words
}

func (r Result) keywords() []Keyword {
	kws := make([]Keyword, 0, len(r.Words))
	for _, w := range r.Words {
		kws = append(kws, Keyword{Word: w, Density: r.Density[w]})
	}
	return kws
}

func limit(kws []Keyword, n int) []Keyword {
	if n > 0 && len(kws) > n {
		return kws[:n]
	}
	return kws
}
