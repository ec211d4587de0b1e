package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/segmentio/encoding/json"
)

// Hash returns the hex SHA-256 of data. Keys are derived from the hash of
// the encoded image, so the same pixels in another encoding are a miss.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<prefix>:<Hash of the JSON encoding of parts>".
func hashKey(prefix string, parts ...any) string {
	// parts are plain structs and strings; Marshal cannot fail on them.
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
