package rubric

import "strings"

// countPhrases counts total occurrences of each phrase in the lowercased
// text. Overlapping phrases count independently; that bias is part of the
// fixed grading constants.
func countPhrases(lower string, phrases []string) int {
	total := 0
	for _, p := range phrases {
		total += strings.Count(lower, p)
	}
	return total
}

// countKeywordOverlap counts how many of the question's keywords appear in
// the answer. Each keyword counts once regardless of repetition.
func countKeywordOverlap(lower string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

func countParagraphs(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// averageSentenceLength returns the mean word count per sentence, splitting
// on the usual terminators.
func averageSentenceLength(text string) float64 {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '?' || r == '!'
	})

	totalWords := 0
	sentenceCount := 0
	for _, s := range sentences {
		words := len(strings.Fields(s))
		if words == 0 {
			continue
		}
		totalWords += words
		sentenceCount++
	}
	if sentenceCount == 0 {
		return 0
	}
	return float64(totalWords) / float64(sentenceCount)
}
