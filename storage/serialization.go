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


package storage

import (
	"github.com/poiesic/bioindex/core"
)

// MarshalID serializes an entry ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an entry ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalEntityRecord serializes an EntityRecord to bytes.
func MarshalEntityRecord(record *core.EntityRecord) []byte {
	buf := make([]byte, core.EntityRecordMUS.Size(*record))
	core.EntityRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalEntityRecord deserializes an EntityRecord from bytes.
func UnmarshalEntityRecord(data []byte) (*core.EntityRecord, error) {
	record, _, err := core.EntityRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, core.VectorMUS.Size(vector))
	core.VectorMUS.Marshal(vector, buf)
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	vector, _, err := core.VectorMUS.Unmarshal(data)
	return vector, err
}
