package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/bioindex/chunk"
	"github.com/poiesic/bioindex/core"
)

// Normalizer maps raw per-entity records into flat, ordered entry lists.
// Sections are processed in a fixed declaration order so repeated runs over
// the same input produce entries in the same order.
type Normalizer struct {
	chunker *chunk.Chunker
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithChunker sets the chunker used for long-form content sections.
// Default is a chunker with chunk.DefaultMaxSize.
func WithChunker(c *chunk.Chunker) Option {
	return func(n *Normalizer) error {
		if c == nil {
			return ErrChunkerRequired
		}
		n.chunker = c
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// WithClock sets the time source used to backfill missing timestamps.
// Default is time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) error {
		if now == nil {
			return ErrClockRequired
		}
		n.now = now
		return nil
	}
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	chunker, err := chunk.NewChunker()
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		chunker: chunker,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

var idUnsafe = regexp.MustCompile(`[^\w\s-]`)

// recordID builds a stable display-name slug with a random suffix so two
// ingestion passes for the same person produce distinct records.
func recordID(name string) string {
	slug := idUnsafe.ReplaceAllString(name, "")
	slug = strings.ToLower(strings.Join(strings.Fields(slug), "-"))
	u := uuid.New()
	return fmt.Sprintf("%s-%x", slug, u[:4])
}

// Normalize transforms a raw record into an EntityRecord with a flat,
// ordered entry list. It is total except for per-section skips: a section
// whose value has an unexpected shape is logged and skipped, and whatever
// entries could be built from the remaining sections are returned.
func (n *Normalizer) Normalize(raw core.RawRecord) (*core.EntityRecord, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyRecord
	}

	name, _, err := stringField(raw, "name")
	if err != nil || name == "" {
		name = "Unknown"
	}

	record := &core.EntityRecord{
		Id:   recordID(name),
		Name: name,
	}
	if scrapedAt, _, err := stringField(raw, "scraped_at"); err == nil {
		record.ScrapedAt = scrapedAt
	}

	record.BirthDate = n.extractBirthDate(raw)
	record.Affiliation = n.extractAffiliation(raw)
	record.Positions = n.extractPositions(raw)

	b := &builder{
		record:           record,
		defaultTimestamp: n.defaultTimestamp(record),
	}

	// Fixed order: this is the retrieval corpus order contract, not an
	// accident of map iteration.
	for _, section := range n.sections() {
		if err := section.extract(b, raw); err != nil {
			n.logger.Warn("skipping malformed section",
				"section", section.key, "entity", record.Name, "err", err)
		}
	}

	n.logger.Info("normalized entity record",
		"entity", record.Name, "id", record.Id, "entries", len(record.Entries))

	return record, nil
}

func (n *Normalizer) defaultTimestamp(record *core.EntityRecord) string {
	if record.ScrapedAt != "" {
		if _, err := core.ParseTimestamp(record.ScrapedAt); err == nil {
			return record.ScrapedAt
		}
	}
	return n.now().UTC().Format(time.RFC3339)
}

// builder accumulates entries for one record, applying the invariants all
// sections share: blank text contributes nothing, timestamps are backfilled,
// and IDs derive from content.
type builder struct {
	record           *core.EntityRecord
	defaultTimestamp string
}

func (b *builder) add(entry core.Entry) {
	entry.ChunkIndex = -1
	b.push(entry)
}

// addChunked records the entry's position within its chunked source document.
func (b *builder) addChunked(entry core.Entry, index int) {
	entry.ChunkIndex = index
	b.push(entry)
}

func (b *builder) push(entry core.Entry) {
	entry.Text = strings.TrimSpace(entry.Text)
	if entry.Text == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = b.defaultTimestamp
	} else if _, err := core.ParseTimestamp(entry.Timestamp); err != nil {
		entry.Timestamp = b.defaultTimestamp
	}
	entry.Id = core.IDFromContent(entry.Text)
	b.record.Entries = append(b.record.Entries, entry)
}
