// Package textstat implements the plain-text measurements behind the
// readability report: sentence segmentation, word tokenization, syllable
// estimation and the Flesch Reading Ease score.
package textstat

import (
	"regexp"
	"strings"
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+`)
	wordPattern      = regexp.MustCompile(`\w+`)
	whitespaceRun    = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
)

// SegmentSentences splits text on runs of '.', '!' and '?'.
// Fragments that are empty after trimming are dropped; the remaining
// fragments are returned as they appear in the input, surrounding
// whitespace included. Text without terminal punctuation is one sentence.
func SegmentSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sentences = append(sentences, part)
	}
	return sentences
}

// TokenizeWords lowercases text and returns every maximal run of word
// characters ([A-Za-z0-9_]). Everything else separates tokens.
func TokenizeWords(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// countTokens returns the number of whitespace-delimited pieces of s,
// counting leading and trailing empty pieces the way a regex split does.
// Unicode space separators such as U+00A0 delimit pieces too.
func countTokens(s string) int {
	return len(whitespaceRun.Split(s, -1))
}
