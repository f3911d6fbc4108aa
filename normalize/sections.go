package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/bioindex/core"
)

// Entry type tags. The set is open: these are the tags this normalizer
// emits, not an exhaustive enum, and consumers must preserve tags they do
// not recognize.
const (
	TypeBiography          = "biography"
	TypeNewsArticle        = "news_article"
	TypeWikipediaContent   = "wikipedia_content"
	TypeWikipediaSection   = "wikipedia_section"
	TypeBallotpediaSection = "ballotpedia_section"
	TypeVotingRecord       = "voting_record"
	TypeSpeech             = "speech"
	TypeSocialMedia        = "social_media"
)

// sectionExtractor pairs a top-level section key with its extraction logic.
// Each extractor is independently fallible; a shape error skips only that
// section.
type sectionExtractor struct {
	key     string
	extract func(b *builder, raw core.RawRecord) error
}

// sections returns the extractors in their fixed declaration order.
func (n *Normalizer) sections() []sectionExtractor {
	return []sectionExtractor{
		{key: "biographies", extract: extractBiographies},
		{key: "news_articles", extract: extractNewsArticles},
		{key: "wikipedia.content", extract: n.extractWikipediaContent},
		{key: "wikipedia.sections", extract: extractWikipediaSections},
		{key: "ballotpedia.sections", extract: extractBallotpediaSections},
		{key: "voting_record.sections", extract: extractVotingRecord},
		{key: "speeches", extract: extractSpeeches},
		{key: "social_media", extract: extractSocialMedia},
	}
}

// extractBiographies pulls biography-like fields from every known source:
// wikipedia summary, ballotpedia Biography section, congressional bio.
func extractBiographies(b *builder, raw core.RawRecord) error {
	if wiki, ok, err := mapField(raw, "wikipedia"); err != nil {
		return err
	} else if ok {
		summary, _, err := stringField(wiki, "summary")
		if err != nil {
			return err
		}
		b.add(core.Entry{
			Type:      TypeBiography,
			Text:      summary,
			SourceURL: optionalString(wiki, "url"),
		})
	}

	if sections, ok, err := nestedMapField(raw, "ballotpedia", "sections"); err != nil {
		return err
	} else if ok {
		bio, _, err := stringField(sections, "Biography")
		if err != nil {
			return err
		}
		ballot, _, _ := mapField(raw, "ballotpedia")
		b.add(core.Entry{
			Type:      TypeBiography,
			Text:      bio,
			SourceURL: optionalString(ballot, "url"),
		})
	}

	if congress, ok, err := mapField(raw, "congress_bio"); err != nil {
		return err
	} else if ok {
		bio, _, err := stringField(congress, "bio")
		if err != nil {
			return err
		}
		b.add(core.Entry{
			Type:      TypeBiography,
			Text:      bio,
			SourceURL: optionalString(congress, "url"),
		})
	}

	return nil
}

// extractNewsArticles emits one entry per article, joining title and body.
func extractNewsArticles(b *builder, raw core.RawRecord) error {
	articles, ok, err := listField(raw, "news_articles")
	if err != nil || !ok {
		return err
	}

	for i, item := range articles {
		article, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: news_articles[%d] is %T, expected mapping", ErrMalformedSection, i, item)
		}

		title := optionalString(article, "title")
		content := optionalString(article, "content")
		if content == "" {
			content = optionalString(article, "description")
		}
		if content == "" {
			continue
		}

		text := content
		if title != "" {
			text = title + "\n\n" + content
		}
		b.add(core.Entry{
			Type:      TypeNewsArticle,
			Title:     title,
			Text:      text,
			SourceURL: optionalString(article, "url"),
			Timestamp: optionalString(article, "published_date"),
		})
	}
	return nil
}

// extractWikipediaContent chunks long-form article content, preserving the
// original order through chunk indices.
func (n *Normalizer) extractWikipediaContent(b *builder, raw core.RawRecord) error {
	wiki, ok, err := mapField(raw, "wikipedia")
	if err != nil || !ok {
		return err
	}
	content, _, err := stringField(wiki, "content")
	if err != nil {
		return err
	}

	url := optionalString(wiki, "url")
	index := 0
	for chunk := range n.chunker.Chunk(content) {
		b.addChunked(core.Entry{
			Type:      TypeWikipediaContent,
			Text:      chunk,
			SourceURL: url,
		}, index)
		index++
	}
	return nil
}

func extractWikipediaSections(b *builder, raw core.RawRecord) error {
	wiki, ok, err := mapField(raw, "wikipedia")
	if err != nil || !ok {
		return err
	}
	sections, ok, err := mapField(wiki, "sections")
	if err != nil || !ok {
		return err
	}

	url := optionalString(wiki, "url")
	return eachSection(sections, func(name, content string) {
		b.add(core.Entry{
			Type:        TypeWikipediaSection,
			SectionName: name,
			Text:        content,
			SourceURL:   url,
		})
	})
}

func extractBallotpediaSections(b *builder, raw core.RawRecord) error {
	ballot, ok, err := mapField(raw, "ballotpedia")
	if err != nil || !ok {
		return err
	}
	sections, ok, err := mapField(ballot, "sections")
	if err != nil || !ok {
		return err
	}

	url := optionalString(ballot, "url")
	return eachSection(sections, func(name, content string) {
		b.add(core.Entry{
			Type:        TypeBallotpediaSection,
			SectionName: name,
			Text:        content,
			SourceURL:   url,
		})
	})
}

// extractVotingRecord emits one entry per voting record section, stripping
// the source prefix the scraper adds to section keys.
func extractVotingRecord(b *builder, raw core.RawRecord) error {
	sections, ok, err := nestedMapField(raw, "voting_record", "sections")
	if err != nil || !ok {
		return err
	}

	return eachSection(sections, func(name, content string) {
		name = trimPrefixes(name, "ballotpedia_", "wikipedia_")
		b.add(core.Entry{
			Type:        TypeVotingRecord,
			SectionName: name,
			Text:        content,
		})
	})
}

// extractSpeeches accepts both shapes seen in the wild: a list of plain
// strings, and a list of mappings carrying title/date/source metadata.
func extractSpeeches(b *builder, raw core.RawRecord) error {
	speeches, ok, err := listField(raw, "speeches")
	if err != nil || !ok {
		return err
	}

	for i, item := range speeches {
		switch speech := item.(type) {
		case string:
			b.add(core.Entry{
				Type: TypeSpeech,
				Text: speech,
			})
		case map[string]any:
			text := optionalString(speech, "text")
			if text == "" {
				continue
			}
			title := optionalString(speech, "title")
			if title == "" {
				title = "Untitled Speech"
			}
			b.add(core.Entry{
				Type:      TypeSpeech,
				Title:     title,
				Text:      text,
				SourceURL: optionalString(speech, "source"),
				Timestamp: optionalString(speech, "date"),
			})
		default:
			return fmt.Errorf("%w: speeches[%d] is %T, expected string or mapping", ErrMalformedSection, i, item)
		}
	}
	return nil
}

// extractSocialMedia turns the platform -> link(s) map into one entry per
// account link. Values may be a single URL or a list of URLs.
func extractSocialMedia(b *builder, raw core.RawRecord) error {
	social, ok, err := mapField(raw, "social_media")
	if err != nil || !ok {
		return err
	}

	add := func(platform, url string) {
		if url == "" {
			return
		}
		b.add(core.Entry{
			Type:      TypeSocialMedia,
			Platform:  platform,
			Text:      fmt.Sprintf("%s's %s account: %s", b.record.Name, platform, url),
			SourceURL: url,
		})
	}

	for _, platform := range sortedKeys(social) {
		switch urls := social[platform].(type) {
		case string:
			add(platform, urls)
		case []any:
			for _, u := range urls {
				url, ok := u.(string)
				if !ok {
					return fmt.Errorf("%w: social_media.%s contains %T, expected string", ErrMalformedSection, platform, u)
				}
				add(platform, url)
			}
		default:
			return fmt.Errorf("%w: social_media.%s is %T, expected string or list", ErrMalformedSection, platform, urls)
		}
	}
	return nil
}

// Shape helpers. Each decides the tag (string / list / mapping) once; absent
// keys are not an error, wrong shapes are.

func stringField(m map[string]any, key string) (string, bool, error) {
	v, present := m[key]
	if !present || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s is %T, expected string", ErrMalformedSection, key, v)
	}
	return s, true, nil
}

func listField(m map[string]any, key string) ([]any, bool, error) {
	v, present := m[key]
	if !present || v == nil {
		return nil, false, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s is %T, expected list", ErrMalformedSection, key, v)
	}
	return l, true, nil
}

func mapField(m map[string]any, key string) (map[string]any, bool, error) {
	v, present := m[key]
	if !present || v == nil {
		return nil, false, nil
	}
	mm, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s is %T, expected mapping", ErrMalformedSection, key, v)
	}
	return mm, true, nil
}

func nestedMapField(m map[string]any, outer, inner string) (map[string]any, bool, error) {
	o, ok, err := mapField(m, outer)
	if err != nil || !ok {
		return nil, false, err
	}
	return mapField(o, inner)
}

// optionalString reads a string value, treating absence and wrong shape as
// empty. Used for metadata fields that never fail a whole section.
func optionalString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _, _ := stringField(m, key)
	return s
}

// eachSection visits a named-subsection mapping in sorted key order so
// normalization output is reproducible across runs.
func eachSection(sections map[string]any, visit func(name, content string)) error {
	for _, name := range sortedKeys(sections) {
		content, _, err := stringField(sections, name)
		if err != nil {
			return err
		}
		visit(name, content)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func trimPrefixes(s string, prefixes ...string) string {
	for _, p := range prefixes {
		s = strings.TrimPrefix(s, p)
	}
	return s
}
