package normalize

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/bioindex/chunk"
	"github.com/poiesic/bioindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(t *testing.T, opts ...Option) *Normalizer {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	n, err := NewNormalizer(opts...)
	require.NoError(t, err)
	return n
}

func TestNewNormalizer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		n, err := NewNormalizer()
		require.NoError(t, err)
		assert.NotNil(t, n.chunker)
		assert.NotNil(t, n.now)
	})

	t.Run("with custom logger", func(t *testing.T) {
		_, err := NewNormalizer(WithLogger(slog.Default()))
		require.NoError(t, err)
	})

	t.Run("nil chunker", func(t *testing.T) {
		_, err := NewNormalizer(WithChunker(nil))
		assert.Equal(t, ErrChunkerRequired, err)
	})

	t.Run("nil clock", func(t *testing.T) {
		_, err := NewNormalizer(WithClock(nil))
		assert.Equal(t, ErrClockRequired, err)
	})
}

func TestNormalize_EmptyRecord(t *testing.T) {
	n := newTestNormalizer(t)

	_, err := n.Normalize(nil)
	assert.Equal(t, ErrEmptyRecord, err)

	_, err = n.Normalize(core.RawRecord{})
	assert.Equal(t, ErrEmptyRecord, err)
}

func TestNormalize_RecordIdentity(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("slug from name", func(t *testing.T) {
		record, err := n.Normalize(core.RawRecord{"name": "Jane Q. Doe"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(record.Id, "jane-q-doe-"), "id = %q", record.Id)
		assert.Equal(t, "Jane Q. Doe", record.Name)
	})

	t.Run("missing name falls back to Unknown", func(t *testing.T) {
		record, err := n.Normalize(core.RawRecord{"scraped_at": "2024-05-01T00:00:00Z"})
		require.NoError(t, err)
		assert.Equal(t, "Unknown", record.Name)
		assert.True(t, strings.HasPrefix(record.Id, "unknown-"))
	})

	t.Run("two passes produce distinct ids", func(t *testing.T) {
		a, err := n.Normalize(core.RawRecord{"name": "Jane Doe"})
		require.NoError(t, err)
		b, err := n.Normalize(core.RawRecord{"name": "Jane Doe"})
		require.NoError(t, err)
		assert.NotEqual(t, a.Id, b.Id)
	})
}

func TestNormalize_SpeechList(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name":     "Jane Doe",
		"speeches": []any{"", "Remarks on trade policy."},
	})
	require.NoError(t, err)

	require.Len(t, record.Entries, 1)
	entry := record.Entries[0]
	assert.Equal(t, TypeSpeech, entry.Type)
	assert.Equal(t, "Remarks on trade policy.", entry.Text)
	assert.Equal(t, -1, entry.ChunkIndex)
	assert.Equal(t, core.IDFromContent("Remarks on trade policy."), entry.Id)
}

func TestNormalize_SpeechMappings(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"speeches": []any{
			map[string]any{
				"text":   "Address to the state assembly.",
				"title":  "Assembly Address",
				"date":   "2023-03-14T10:00:00Z",
				"source": "https://example.gov/speeches/1",
			},
			map[string]any{"title": "No transcript available"},
		},
	})
	require.NoError(t, err)

	require.Len(t, record.Entries, 1)
	entry := record.Entries[0]
	assert.Equal(t, "Assembly Address", entry.Title)
	assert.Equal(t, "https://example.gov/speeches/1", entry.SourceURL)
	assert.Equal(t, "2023-03-14T10:00:00Z", entry.Timestamp)
}

func TestNormalize_SectionOrderIsFixed(t *testing.T) {
	n := newTestNormalizer(t)

	raw := core.RawRecord{
		"name":       "Jane Doe",
		"scraped_at": "2024-05-01T00:00:00Z",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Jane_Doe",
			"summary": "Jane Doe is a senator.",
			"sections": map[string]any{
				"Early life": "Born in Springfield.",
				"Career":     "Elected in 2010.",
			},
		},
		"news_articles": []any{
			map[string]any{
				"title":   "Doe wins primary",
				"content": "The senator won again.",
				"url":     "https://news.example.com/1",
			},
		},
		"speeches":     []any{"Remarks on trade policy."},
		"social_media": map[string]any{"twitter": "https://twitter.com/janedoe"},
	}

	record, err := n.Normalize(raw)
	require.NoError(t, err)

	types := make([]string, len(record.Entries))
	for i, e := range record.Entries {
		types[i] = e.Type
	}
	assert.Equal(t, []string{
		TypeBiography,
		TypeNewsArticle,
		TypeWikipediaSection,
		TypeWikipediaSection,
		TypeSpeech,
		TypeSocialMedia,
	}, types)

	// Mapping sections are visited in sorted key order for reproducibility.
	assert.Equal(t, "Career", record.Entries[2].SectionName)
	assert.Equal(t, "Early life", record.Entries[3].SectionName)

	// Repeated runs preserve order and content.
	again, err := n.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, again.Entries, len(record.Entries))
	for i := range record.Entries {
		assert.Equal(t, record.Entries[i].Text, again.Entries[i].Text)
	}
}

func TestNormalize_ChunksLongFormContent(t *testing.T) {
	chunker, err := chunk.NewChunker(chunk.WithMaxSize(65))
	require.NoError(t, err)
	n := newTestNormalizer(t, WithChunker(chunker))

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Jane_Doe",
			"content": "First sentence of the article. Second sentence of the article. Third sentence of the article.",
		},
	})
	require.NoError(t, err)

	require.Len(t, record.Entries, 2)
	for i, entry := range record.Entries {
		assert.Equal(t, TypeWikipediaContent, entry.Type)
		assert.Equal(t, i, entry.ChunkIndex)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Jane_Doe", entry.SourceURL)
	}
}

func TestNormalize_MalformedSectionIsSkipped(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name":          "Jane Doe",
		"news_articles": "not a list",
		"speeches":      []any{"Remarks on trade policy."},
	})
	require.NoError(t, err)

	// The malformed news section is skipped; the speech still lands.
	require.Len(t, record.Entries, 1)
	assert.Equal(t, TypeSpeech, record.Entries[0].Type)
}

func TestNormalize_TimestampBackfill(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("from scraped_at", func(t *testing.T) {
		record, err := n.Normalize(core.RawRecord{
			"name":       "Jane Doe",
			"scraped_at": "2024-05-01T00:00:00Z",
			"speeches":   []any{"Remarks on trade policy."},
		})
		require.NoError(t, err)
		require.Len(t, record.Entries, 1)
		assert.Equal(t, "2024-05-01T00:00:00Z", record.Entries[0].Timestamp)
	})

	t.Run("from clock when scraped_at absent", func(t *testing.T) {
		record, err := n.Normalize(core.RawRecord{
			"name":     "Jane Doe",
			"speeches": []any{"Remarks on trade policy."},
		})
		require.NoError(t, err)
		require.Len(t, record.Entries, 1)
		assert.Equal(t, fixedTime.Format(time.RFC3339), record.Entries[0].Timestamp)
	})

	t.Run("unparseable per-entry timestamp replaced", func(t *testing.T) {
		record, err := n.Normalize(core.RawRecord{
			"name":       "Jane Doe",
			"scraped_at": "2024-05-01T00:00:00Z",
			"news_articles": []any{
				map[string]any{
					"title":          "Doe wins primary",
					"content":        "The senator won again.",
					"published_date": "yesterday",
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, record.Entries, 1)
		assert.Equal(t, "2024-05-01T00:00:00Z", record.Entries[0].Timestamp)
	})
}

func TestNormalize_SocialMedia(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"social_media": map[string]any{
			"twitter":  "https://twitter.com/janedoe",
			"facebook": []any{"https://facebook.com/janedoe", "https://facebook.com/senatordoe"},
		},
	})
	require.NoError(t, err)

	require.Len(t, record.Entries, 3)
	// facebook sorts before twitter
	assert.Equal(t, "facebook", record.Entries[0].Platform)
	assert.Equal(t, "facebook", record.Entries[1].Platform)
	assert.Equal(t, "twitter", record.Entries[2].Platform)
	assert.Equal(t, "Jane Doe's twitter account: https://twitter.com/janedoe", record.Entries[2].Text)
	assert.Equal(t, "https://twitter.com/janedoe", record.Entries[2].SourceURL)
}

func TestNormalize_VotingRecordPrefixes(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"voting_record": map[string]any{
			"sections": map[string]any{
				"ballotpedia_Key votes": "Voted yes on the highway bill.",
				"wikipedia_Tenure":      "Served on the finance committee.",
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, record.Entries, 2)
	assert.Equal(t, "Key votes", record.Entries[0].SectionName)
	assert.Equal(t, "Tenure", record.Entries[1].SectionName)
	for _, entry := range record.Entries {
		assert.Equal(t, TypeVotingRecord, entry.Type)
	}
}

func TestNormalize_EmptySectionsContributeNothing(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"wikipedia": map[string]any{
			"summary":  "   ",
			"content":  "",
			"sections": map[string]any{"Early life": ""},
		},
		"news_articles": []any{},
		"speeches":      []any{""},
		"social_media":  map[string]any{},
	})
	require.NoError(t, err)
	assert.Empty(t, record.Entries)
}

func TestNormalize_Biographies(t *testing.T) {
	n := newTestNormalizer(t)

	record, err := n.Normalize(core.RawRecord{
		"name": "Jane Doe",
		"wikipedia": map[string]any{
			"url":     "https://en.wikipedia.org/wiki/Jane_Doe",
			"summary": "Jane Doe is a senator.",
		},
		"ballotpedia": map[string]any{
			"url": "https://ballotpedia.org/Jane_Doe",
			"sections": map[string]any{
				"Biography": "Doe grew up in Springfield.",
			},
		},
		"congress_bio": map[string]any{
			"url": "https://bioguide.congress.gov/janedoe",
			"bio": "DOE, Jane, a Senator from Illinois.",
		},
	})
	require.NoError(t, err)

	// Three biography entries first (wikipedia, ballotpedia, congress), then
	// the ballotpedia Biography section again as its own section entry.
	require.Len(t, record.Entries, 4)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Jane_Doe", record.Entries[0].SourceURL)
	assert.Equal(t, "https://ballotpedia.org/Jane_Doe", record.Entries[1].SourceURL)
	assert.Equal(t, "https://bioguide.congress.gov/janedoe", record.Entries[2].SourceURL)
	for _, entry := range record.Entries[:3] {
		assert.Equal(t, TypeBiography, entry.Type)
	}
	assert.Equal(t, TypeBallotpediaSection, record.Entries[3].Type)
}
