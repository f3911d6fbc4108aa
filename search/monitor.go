package search

import "github.com/poiesic/bioindex/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterCorpusLoad(entryCount int)
	AfterQueryEmbedding(dimensions int)
	SemanticHit(result *core.SearchResult)
	KeywordHit(result *core.SearchResult)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) AfterCorpusLoad(_ int)            {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)        {}
func (n *noopMonitor) SemanticHit(_ *core.SearchResult) {}
func (n *noopMonitor) KeywordHit(_ *core.SearchResult)  {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)    {}
