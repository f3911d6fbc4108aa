package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/bioindex/core"
)

// Key prefixes for different data types
const (
	entityRecordPrefix = "entrec"
	entityNamePrefix   = "entname"
	vectorPrefix       = "entvec"
)

// makeEntityRecordKey generates a key for an entity record by ID.
func makeEntityRecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", entityRecordPrefix, id))
}

// makeEntityNameKey generates a key for the case-insensitive name index.
func makeEntityNameKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", entityNamePrefix, strings.ToLower(name)))
}

// makeVectorKey generates a key for an entry vector.
// The entry ID is written in BigEndian order so lexicographic iteration
// visits vectors in ID order.
func makeVectorKey(id core.ID) []byte {
	prefix := vectorPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// vectorKeyID extracts the entry ID from a vector key.
func vectorKeyID(key []byte) (core.ID, bool) {
	prefixLen := len(vectorPrefix) + 1
	if len(key) != prefixLen+8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[prefixLen:])), true
}
