package backend

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/ZaguanLabs/livetl"
	"github.com/ZaguanLabs/livetl/cache"
	"github.com/ZaguanLabs/livetl/internal/logging"
)

// CachedEngine serves repeated translations from a cache.
type CachedEngine struct {
	engine Engine
	cache  cache.TranslationCache
	logger *slog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedEngine wraps engine with cache. A nil logger discards output.
func NewCachedEngine(engine Engine, c cache.TranslationCache, logger *slog.Logger) *CachedEngine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CachedEngine{
		engine: engine,
		cache:  c,
		logger: logger,
	}
}

// Translate implements Engine. Cache write failures are logged and ignored.
func (e *CachedEngine) Translate(ctx context.Context, text, language string) (string, error) {
	key := livetl.EngineCacheKey(livetl.HashText(text), language, e.engine.Name())

	if cached, ok := e.cache.Get(ctx, key); ok {
		e.hits.Add(1)
		return cached, nil
	}
	e.misses.Add(1)

	translation, err := e.engine.Translate(ctx, text, language)
	if err != nil {
		return "", err
	}

	if err := e.cache.Set(ctx, key, translation); err != nil {
		e.logger.Warn("cache write failed", "error", err)
	}

	return translation, nil
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string {
	return e.engine.Name()
}

// Hits returns the number of cache hits so far.
func (e *CachedEngine) Hits() uint64 {
	return e.hits.Load()
}

// Misses returns the number of cache misses so far.
func (e *CachedEngine) Misses() uint64 {
	return e.misses.Load()
}

// Verify CachedEngine implements Engine
var _ Engine = (*CachedEngine)(nil)
