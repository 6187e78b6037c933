package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from raw snapshot content, so a re-run over
// an unchanged file hits the cache regardless of the file's path
func Key(content []byte) string {
	hash := sha256.Sum256(content)
	return "evolens:v1:" + hex.EncodeToString(hash[:])
}
