// Package cache provides translation caches for the backend engines.
package cache

import "context"

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores a translation in the cache.
	Set(ctx context.Context, key string, value string) error
}
