// Package rawjson loads raw scraped records from JSON files.
//
// Scrapers write one JSON document per public figure. This package reads
// those files back as core.RawRecord values for normalization and ingestion.
// It is deliberately tolerant: a file that fails to parse is skipped with a
// warning rather than failing the whole load.
package rawjson
