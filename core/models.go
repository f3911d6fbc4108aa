package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for retrievable units.
// It is generated from content so identical text maps to the same ID,
// which lets embedding vectors be cached and stored by content identity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RawRecord is a raw per-entity record as produced by an upstream scraper.
// It has no fixed schema; every top-level section is optional and its shape
// is checked during normalization.
type RawRecord map[string]any

// Entry is one bounded, independently retrievable unit of text with
// type and provenance metadata. Entries are immutable after creation;
// corrections replace the owning record's entry list, never mutate in place.
type Entry struct {
	Id          ID     `json:"id"`
	Type        string `json:"type"`
	Text        string `json:"text"`
	SectionName string `json:"section_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Platform    string `json:"platform,omitempty"`
	SourceURL   string `json:"source_url"`
	Timestamp   string `json:"timestamp"` // ISO-8601
	// ChunkIndex is the position of this entry within its source document
	// when it was derived from chunked long-form text. It is -1 for entries
	// that were not produced by chunking.
	ChunkIndex int `json:"chunk_index"`
}

// EntityRecord is the complete set of retrievable text for one tracked person.
// The Id is immutable once assigned and the entry list is append-only.
type EntityRecord struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	BirthDate   string   `json:"date_of_birth,omitempty"`
	Affiliation string   `json:"political_affiliation,omitempty"`
	Positions   []string `json:"positions,omitempty"`
	ScrapedAt   string   `json:"scraped_at,omitempty"`
	Entries     []Entry  `json:"entries"`
}

// SearchResult is a ranked hit from semantic or keyword search.
// Both search modes produce the same shape so results are interchangeable.
type SearchResult struct {
	Politician string  `json:"politician"`
	Type       string  `json:"type"`
	Title      string  `json:"title,omitempty"`
	Content    string  `json:"content"`
	Relevance  float32 `json:"relevance"`
	Source     string  `json:"source,omitempty"`
	EntryId    ID      `json:"-"`
}
