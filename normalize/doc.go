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


// Package normalize converts raw per-entity scraper records into flat,
// ordered entry lists suitable for indexing and retrieval.
//
// A raw record has no fixed schema. The normalizer walks a fixed ordered
// list of known top-level sections, checks each section's shape once
// (string, list, or mapping), and emits one entry per extractable text unit.
// A malformed section is skipped with a logged warning; normalization always
// completes with whatever entries could be built.
package normalize
