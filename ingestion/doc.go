// Package ingestion provides pipeline orchestration for indexing raw
// scraped records.
//
// The Pipeline type manages the ingestion workflow: normalizing raw
// per-entity records, storing the resulting entity records, and generating
// entry embeddings asynchronously on a worker pool. Embedding errors are
// logged but do not fail ingestion; entries without stored vectors are
// embedded lazily at query time.
package ingestion
