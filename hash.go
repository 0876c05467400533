package livetl

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and target language.
func CacheKey(hash, language string) string {
	return hash + ":" + NormalizeLanguage(language)
}

// EngineCacheKey generates a cache key that also includes the engine name,
// so translations from different backends never mix.
func EngineCacheKey(hash, language, engine string) string {
	return engine + ":" + CacheKey(hash, language)
}
