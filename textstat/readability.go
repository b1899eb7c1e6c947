package textstat

import "math"

// Reading level labels, from easiest to hardest.
const (
	VeryEasy        = "Very Easy"
	Easy            = "Easy"
	FairlyEasy      = "Fairly Easy"
	Standard        = "Standard"
	FairlyDifficult = "Fairly Difficult"
	Difficult       = "Difficult"
	VeryDifficult   = "Very Difficult"

	// NotComputable labels text without words or sentences.
	NotComputable = "Not Computable"
)

// LongSentenceTokens is the whitespace token count above which a sentence
// counts as long.
const LongSentenceTokens = 20

// Stats is the readability snapshot of one analysis run.
type Stats struct {
	FleschScore         int     `json:"fleschScore"`
	ReadingLevel        string  `json:"readingLevel"`
	WordCount           int     `json:"wordCount"`
	SentenceCount       int     `json:"sentenceCount"`
	AvgSentenceLength   float64 `json:"avgSentenceLength"`
	LongSentenceCount   int     `json:"longSentenceCount"`
	AvgSyllablesPerWord float64 `json:"avgSyllablesPerWord"`
}

// Computable reports whether the Flesch score was derived from actual text.
func (s Stats) Computable() bool {
	return s.ReadingLevel != NotComputable
}

// FleschReadingEase applies the Flesch Reading Ease formula. ok is false
// when words or sentences is zero and the score is undefined.
func FleschReadingEase(words, sentences, syllables int) (score float64, ok bool) {
	if words == 0 || sentences == 0 {
		return 0, false
	}
	wordsPerSentence := float64(words) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(words)
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, true
}

// ReadingLevel maps a Flesch score to its label. Lower bounds are inclusive.
func ReadingLevel(score float64) string {
	switch {
	case score >= 90:
		return VeryEasy
	case score >= 80:
		return Easy
	case score >= 70:
		return FairlyEasy
	case score >= 60:
		return Standard
	case score >= 50:
		return FairlyDifficult
	case score >= 30:
		return Difficult
	default:
		return VeryDifficult
	}
}

// ComputeStats measures text and returns its readability snapshot.
// Text without words or sentences yields zero averages, a FleschScore of 0
// and the NotComputable level.
func ComputeStats(text string) Stats {
	sentences := SegmentSentences(text)
	words := TokenizeWords(text)
	syllables := EstimateTotalSyllables(words)

	stats := Stats{
		WordCount:     len(words),
		SentenceCount: len(sentences),
		ReadingLevel:  NotComputable,
	}

	for _, s := range sentences {
		if countTokens(s) > LongSentenceTokens {
			stats.LongSentenceCount++
		}
	}

	if stats.SentenceCount > 0 {
		stats.AvgSentenceLength = Round(float64(stats.WordCount)/float64(stats.SentenceCount), 1)
	}
	if stats.WordCount > 0 {
		stats.AvgSyllablesPerWord = Round(float64(syllables)/float64(stats.WordCount), 1)
	}

	if score, ok := FleschReadingEase(stats.WordCount, stats.SentenceCount, syllables); ok {
		stats.FleschScore = int(math.Floor(score + 0.5))
		stats.ReadingLevel = ReadingLevel(score)
	}

	return stats
}

// Round rounds v half-up to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
