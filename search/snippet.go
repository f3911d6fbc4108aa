package search

import (
	"regexp"
	"strings"
)

// DefaultSnippetSize is the target snippet length in characters.
const DefaultSnippetSize = 200

// Snippet returns an excerpt of content centered on a query term occurrence.
//
// Query terms shorter than 3 characters are discarded as anchors. Among all
// case-insensitive word-boundary matches of the surviving terms, the one
// closest to the midpoint of content wins, which avoids always surfacing lede
// sentences. The window is then expanded outward to the nearest word
// boundaries so no word is ever split, and "..." is affixed on any clipped
// side. Returns "" when no term matches; callers fall back to a fixed
// truncation.
//
// Snippet is pure and independent of any embedding or ranking state.
func Snippet(content, query string, size int) string {
	if content == "" || query == "" {
		return ""
	}
	if size <= 0 {
		size = DefaultSnippetSize
	}

	terms := queryTerms(query, 3)
	if len(terms) == 0 {
		return ""
	}

	var positions []int
	for _, term := range terms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(content, -1) {
			positions = append(positions, loc[0])
		}
	}
	if len(positions) == 0 {
		return ""
	}

	// Anchor on the match closest to the document midpoint.
	mid := len(content) / 2
	best := positions[0]
	for _, pos := range positions[1:] {
		if abs(pos-mid) < abs(best-mid) {
			best = pos
		}
	}

	start := best - size/2
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > len(content) {
		end = len(content)
	}

	// Expand outward to word boundaries.
	for start > 0 && !isBoundary(content[start-1]) {
		start--
	}
	for end < len(content) && !isBoundary(content[end]) {
		end++
	}

	snippet := strings.TrimSpace(content[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}
	return snippet
}

// Truncate returns the first size characters of content with a "..." suffix
// when clipped. Used as the snippet fallback when no query term matches.
func Truncate(content string, size int) string {
	if size <= 0 {
		size = DefaultSnippetSize
	}
	if len(content) <= size {
		return content
	}
	return content[:size] + "..."
}

func isBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
