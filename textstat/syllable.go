package textstat

import (
	"regexp"
	"strings"
)

// The estimate is a heuristic: it trims silent endings and counts vowel
// groups, so scores built on it are approximate.
var (
	silentSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	leadingY     = regexp.MustCompile(`^y`)
	vowelGroup   = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// EstimateSyllables returns the approximate number of syllables in word.
// The result is never below 1.
func EstimateSyllables(word string) int {
	word = strings.ToLower(word)
	if len(word) <= 3 {
		return 1
	}

	word = silentSuffix.ReplaceAllString(word, "")
	word = leadingY.ReplaceAllString(word, "")

	if n := len(vowelGroup.FindAllStringIndex(word, -1)); n > 0 {
		return n
	}
	return 1
}

// EstimateTotalSyllables sums EstimateSyllables over words.
func EstimateTotalSyllables(words []string) int {
	total := 0
	for _, w := range words {
		total += EstimateSyllables(w)
	}
	return total
}
