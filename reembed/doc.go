// Package reembed regenerates stored embedding vectors for the full corpus.
//
// Embedding vectors are only comparable when produced by the same model, so
// switching models invalidates every stored vector at once. The Reembedder
// walks all stored entries in batches, embeds them with the current model,
// and overwrites the stored vectors. Batches are retried with exponential
// backoff so a brief embedding service outage does not abort a long run.
package reembed
