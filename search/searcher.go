package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

const (
	// DefaultThreshold is the similarity a semantic result must exceed.
	DefaultThreshold = 0.2

	// DefaultKeywordThreshold is the term-overlap relevance a keyword
	// result must exceed.
	DefaultKeywordThreshold = 0.3

	// DefaultTopK is the result count when the caller passes topK <= 0.
	DefaultTopK = 5
)

// Searcher ranks entity record entries against free-text queries, either
// semantically via vector similarity or by keyword term overlap.
//
// A Searcher is stateless per call apart from two caches it owns: the lazily
// loaded corpus view and the entry embedding cache. Both are safe for
// concurrent queries.
type Searcher struct {
	entities storage.EntityRepository
	vectors  storage.VectorRepository
	embedder ai.Embedder
	logger   *slog.Logger
	cache    *EmbeddingCache
	corpus   corpus

	threshold        float32
	typeThresholds   map[string]float32
	keywordThreshold float32
	snippetSize      int
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithThreshold sets the default semantic similarity threshold.
// Default is DefaultThreshold.
func WithThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		s.threshold = threshold
		return nil
	}
}

// WithTypeThreshold overrides the semantic threshold for one entry type.
// Category-specific paths that want stricter matching (e.g. 0.5 for
// biographies) configure it here.
func WithTypeThreshold(entryType string, threshold float32) Option {
	return func(s *Searcher) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		s.typeThresholds[entryType] = threshold
		return nil
	}
}

// WithKeywordThreshold sets the keyword relevance threshold.
// Default is DefaultKeywordThreshold.
func WithKeywordThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		s.keywordThreshold = threshold
		return nil
	}
}

// WithSnippetSize sets the target snippet length for result content.
// Default is DefaultSnippetSize.
func WithSnippetSize(size int) Option {
	return func(s *Searcher) error {
		if size > 0 {
			s.snippetSize = size
		}
		return nil
	}
}

// WithEmbeddingCache shares an existing embedding cache with the searcher.
// Default is a fresh cache per searcher.
func WithEmbeddingCache(cache *EmbeddingCache) Option {
	return func(s *Searcher) error {
		if cache != nil {
			s.cache = cache
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	entities storage.EntityRepository,
	vectors storage.VectorRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if entities == nil {
		return nil, ErrEntityRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		entities:         entities,
		vectors:          vectors,
		embedder:         provider.Embedder(),
		logger:           slog.Default(),
		cache:            NewEmbeddingCache(),
		threshold:        DefaultThreshold,
		typeThresholds:   make(map[string]float32),
		keywordThreshold: DefaultKeywordThreshold,
		snippetSize:      DefaultSnippetSize,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Refresh discards the cached corpus view so the next query reloads from
// storage. Call after ingesting new records into a live process.
func (s *Searcher) Refresh() {
	s.corpus.Invalidate()
}

// Search ranks all entries semantically against the query and returns up to
// topK results sorted by relevance descending.
//
// Degraded conditions return an empty result list, never an error: an
// unreachable embedder and an empty or unloadable corpus are both logged and
// absorbed, since "no results" is safe behavior and keyword search remains
// available as a fallback.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, topK, nil)
}

// SearchWithMonitor is Search with observation hooks.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	entries, ok := s.loadCorpus(ctx, monitor)
	if !ok {
		return []*core.SearchResult{}, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("embedding unavailable for query", "query", query, "err", err)
		return []*core.SearchResult{}, nil
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	var results []*core.SearchResult
	for _, ce := range entries {
		vector, err := s.entryVector(ctx, ce.entry)
		if err != nil {
			s.logger.Warn("skipping entry without embedding",
				"entity", ce.record.Name, "entry", ce.entry.Id, "err", err)
			continue
		}

		score := CosineSimilarity(queryVector, vector)
		if score <= s.thresholdFor(ce.entry.Type) {
			continue
		}

		result := s.buildResult(ce, query, score)
		monitor.SemanticHit(result)
		results = append(results, result)
	}

	results = rank(results, topK)
	monitor.Finish(results)
	return results, nil
}

// KeywordSearch ranks entries by query term overlap. It requires no
// embedding capability and shares Search's result shape and degraded
// behavior.
func (s *Searcher) KeywordSearch(ctx context.Context, query string, topK int) ([]*core.SearchResult, error) {
	return s.KeywordSearchWithMonitor(ctx, query, topK, nil)
}

// KeywordSearchWithMonitor is KeywordSearch with observation hooks.
func (s *Searcher) KeywordSearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	entries, ok := s.loadCorpus(ctx, monitor)
	if !ok {
		return []*core.SearchResult{}, nil
	}

	// Every distinct term counts toward the relevance denominator; terms of
	// length <= 2 just never match, so filler words dilute the score.
	terms := queryTerms(query, 1)

	var results []*core.SearchResult
	for _, ce := range entries {
		relevance := keywordRelevance(ce.entry.Text, terms)
		if relevance <= s.keywordThreshold {
			continue
		}

		result := s.buildResult(ce, query, relevance)
		monitor.KeywordHit(result)
		results = append(results, result)
	}

	results = rank(results, topK)
	monitor.Finish(results)
	return results, nil
}

// loadCorpus returns the flattened corpus view, reporting false on the
// DataUnavailable condition (load failure or no records at all).
func (s *Searcher) loadCorpus(ctx context.Context, monitor SearchMonitor) ([]corpusEntry, bool) {
	entries, err := s.corpus.load(ctx, s.entities)
	if err != nil {
		s.logger.Warn("entity records unavailable", "err", err)
		return nil, false
	}
	if len(entries) == 0 {
		s.logger.Warn("no entity records loaded, returning no results")
		return nil, false
	}
	monitor.AfterCorpusLoad(len(entries))
	return entries, true
}

// entryVector resolves an entry's embedding: process cache first, then the
// vector store, then a lazy embed of the entry text.
func (s *Searcher) entryVector(ctx context.Context, entry *core.Entry) ([]float32, error) {
	if vector, ok := s.cache.Get(entry.Id); ok {
		return vector, nil
	}

	vector, err := s.vectors.GetVector(ctx, entry.Id)
	if err == nil {
		return s.cache.Put(entry.Id, vector), nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	vector, err = s.embedder.EmbedText(ctx, entry.Text)
	if err != nil {
		return nil, err
	}
	return s.cache.Put(entry.Id, vector), nil
}

func (s *Searcher) thresholdFor(entryType string) float32 {
	if threshold, ok := s.typeThresholds[entryType]; ok {
		return threshold
	}
	return s.threshold
}

func (s *Searcher) buildResult(ce corpusEntry, query string, relevance float32) *core.SearchResult {
	content := Snippet(ce.entry.Text, query, s.snippetSize)
	if content == "" {
		content = Truncate(ce.entry.Text, s.snippetSize)
	}

	return &core.SearchResult{
		Politician: ce.record.Name,
		Type:       ce.entry.Type,
		Title:      ce.entry.Title,
		Content:    content,
		Relevance:  relevance,
		Source:     ce.entry.SourceURL,
		EntryId:    ce.entry.Id,
	}
}

// rank sorts results by relevance descending and clips to topK.
// The sort is stable so equal scores keep original entry order, making
// repeated runs deterministic.
func rank(results []*core.SearchResult, topK int) []*core.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []*core.SearchResult{}
	}
	return results
}
