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


package core

import (
	"fmt"
	"time"
)

// timestampLayouts are the accepted ISO-8601 variants, most specific first.
// Upstream scrapers emit both timezone-aware and naive timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp string.
// Returns ErrInvalidTimestamp if no accepted layout matches.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Type must not be empty (the set of types is open; any non-empty tag is valid)
//   - Timestamp, when set, must be a parseable ISO-8601 string
//
// NOT validated:
//   - SourceURL (empty string means unknown provenance)
//   - ChunkIndex (-1 is valid for non-chunked entries)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}
	if entry.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyText)
	}
	if entry.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyType)
	}
	if entry.Timestamp != "" {
		if _, err := ParseTimestamp(entry.Timestamp); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
		}
	}
	return nil
}

// ValidateEntityRecord validates an EntityRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty (immutable once assigned)
//   - Name must not be empty
//   - every Entry must pass ValidateEntry
//
// An empty entry list is valid; a record may exist before any text could
// be extracted for it.
func ValidateEntityRecord(record *EntityRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEntityRecord)
	}
	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntityRecord, ErrEmptyRecordID)
	}
	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntityRecord, ErrEmptyName)
	}
	for i := range record.Entries {
		if err := ValidateEntry(&record.Entries[i]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
