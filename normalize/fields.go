package normalize

import (
	"regexp"
	"time"

	"github.com/poiesic/bioindex/chunk"
	"github.com/poiesic/bioindex/core"
)

// Infobox extraction is best-effort metadata enrichment: failures here never
// affect entry extraction, so every helper swallows shape errors and returns
// zero values.

var (
	birthDateKeys   = []string{"Born", "Date of birth", "Birth date"}
	affiliationKeys = []string{"Party", "Political party", "Affiliation"}
	positionKeys    = []string{"Office", "Offices held", "Title", "Position"}

	careerVerbs = regexp.MustCompile(`(?i)\b(elected|appointed|served as|position|office)\b`)

	// "January 2, 1950", "2 January 1950", and "1950-01-02"
	longDate    = regexp.MustCompile(`\b([A-Z][a-z]+ \d{1,2}, \d{4})\b`)
	dayFirst    = regexp.MustCompile(`\b(\d{1,2} [A-Z][a-z]+ \d{4})\b`)
	numericDate = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

func (n *Normalizer) extractBirthDate(raw core.RawRecord) string {
	if infobox, ok, _ := nestedMapField(raw, "wikipedia", "infobox"); ok {
		for _, key := range birthDateKeys {
			if date := findBirthDate(optionalString(infobox, key)); date != "" {
				return date
			}
		}
	}
	if sections, ok, _ := nestedMapField(raw, "ballotpedia", "sections"); ok {
		if date := findBirthDate(optionalString(sections, "Biography")); date != "" {
			return date
		}
	}
	return ""
}

func (n *Normalizer) extractAffiliation(raw core.RawRecord) string {
	if infobox, ok, _ := nestedMapField(raw, "wikipedia", "infobox"); ok {
		for _, key := range affiliationKeys[:2] {
			if party := optionalString(infobox, key); party != "" {
				return party
			}
		}
	}
	if infobox, ok, _ := nestedMapField(raw, "ballotpedia", "infobox"); ok {
		for _, key := range affiliationKeys {
			if party := optionalString(infobox, key); party != "" {
				return party
			}
		}
	}
	return ""
}

func (n *Normalizer) extractPositions(raw core.RawRecord) []string {
	var positions []string

	if infobox, ok, _ := nestedMapField(raw, "wikipedia", "infobox"); ok {
		for _, key := range positionKeys {
			if position := optionalString(infobox, key); position != "" {
				positions = append(positions, position)
			}
		}
	}

	// Ballotpedia career prose: keep sentences that talk about holding office.
	if sections, ok, _ := nestedMapField(raw, "ballotpedia", "sections"); ok {
		for _, sentence := range chunk.Sentences(optionalString(sections, "Career")) {
			if careerVerbs.MatchString(sentence) {
				positions = append(positions, sentence)
			}
		}
	}

	return positions
}

// findBirthDate scans free text for a plausible birth date and returns it as
// YYYY-MM-DD. Dates outside 1900-2010 are rejected: they are ages, term
// years, or citation years, not births.
func findBirthDate(text string) string {
	if text == "" {
		return ""
	}

	candidates := []struct {
		re     *regexp.Regexp
		layout string
	}{
		{longDate, "January 2, 2006"},
		{dayFirst, "2 January 2006"},
		{numericDate, "2006-01-02"},
	}

	for _, c := range candidates {
		for _, match := range c.re.FindAllString(text, -1) {
			t, err := time.Parse(c.layout, match)
			if err != nil {
				continue
			}
			if plausibleBirthYear(t.Year()) {
				return t.Format("2006-01-02")
			}
		}
	}

	return ""
}

// plausibleBirthYear rejects years that are ages, term years, or citation
// years rather than births.
func plausibleBirthYear(year int) bool {
	return year > 1900 && year < 2010
}
