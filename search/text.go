package search

import "strings"

// queryTerms splits a query into distinct lowercase terms, discarding terms
// shorter than minLen. Order of first appearance is preserved.
func queryTerms(query string, minLen int) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:'\"-()[]{}")
		if len(word) < minLen || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

// keywordRelevance scores how many of the distinct query terms appear as
// substrings of the lowercased text. This is substring containment, not
// tokenized word matching: "art" matches inside "smart". The imprecision is
// retained so scores stay comparable with the historical behavior of the
// corpus.
//
// Terms shorter than 3 characters can never match, but they still count in
// the denominator: short filler words dilute the score rather than being
// ignored outright.
func keywordRelevance(text string, terms []string) float32 {
	if len(terms) == 0 {
		return 0.0
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, term := range terms {
		if len(term) < 3 {
			continue
		}
		if strings.Contains(lower, term) {
			matches++
		}
	}
	return float32(matches) / float32(len(terms))
}
