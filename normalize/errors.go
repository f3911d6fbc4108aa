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


package normalize

import "errors"

var (
	// ErrEmptyRecord is returned when the raw record is nil or has no fields.
	ErrEmptyRecord = errors.New("raw record is empty")

	// ErrMalformedSection indicates a source section has an unexpected shape.
	// It is recovered locally: the section is skipped with a logged warning.
	ErrMalformedSection = errors.New("malformed section")

	// ErrChunkerRequired is returned when a nil chunker is provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrClockRequired is returned when a nil clock is provided.
	ErrClockRequired = errors.New("clock required")
)
