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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntityRecord indicates an EntityRecord failed validation.
	ErrInvalidEntityRecord = errors.New("invalid entity record")

	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrEmptyRecordID indicates the record Id field is empty.
	ErrEmptyRecordID = errors.New("record id cannot be empty")

	// ErrEmptyName indicates the record Name field is empty.
	ErrEmptyName = errors.New("record name cannot be empty")

	// ErrEmptyText indicates the entry Text field is empty.
	ErrEmptyText = errors.New("entry text cannot be empty")

	// ErrEmptyType indicates the entry Type field is empty.
	ErrEmptyType = errors.New("entry type cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is not a parseable ISO-8601 string.
	ErrInvalidTimestamp = errors.New("timestamp must be ISO-8601")
)
