// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search ranks biographical entries against free-text queries.
//
// The Searcher type scores every entry of every entity record in an
// in-memory corpus view, either semantically (cosine similarity between the
// query embedding and per-entry embeddings) or by keyword term overlap as an
// embedding-free fallback. Results that do not exceed their relevance
// threshold are dropped; survivors carry the entity name, entry type, a
// query-centered snippet, the score, and the source URL.
//
// CosineSimilarity and Snippet are pure functions, independently usable and
// property-testable. Degraded conditions (unreachable embedder, empty
// corpus) surface as empty result lists with logged warnings, never as
// errors from Search or KeywordSearch.
package search
