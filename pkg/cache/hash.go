package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data. Pattern hashes and file
// cache paths both use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives a key of the form "kind:<sha256>" from the JSON encoding
// of parts. Struct fields are encoded in declaration order, so equal
// options always give equal keys.
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Only unsupported values (channels, funcs) fail to encode.
		panic("cache: unhashable key part: " + err.Error())
	}
	return kind + ":" + Hash(data)
}
