package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// StatsKey builds the cache key for a stats result. The resolved source tree
// path is part of the key so a newly downloaded version (new directory name)
// never reads another version's cached rows. Languages are part of the key
// because the tool itself filters via -l, so its output depends on them.
func StatsKey(pkg, sourceDir string, languages string) string {
	return hashKey("stats", pkg, sourceDir, languages)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
