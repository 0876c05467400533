// Package backend implements the translation engines behind the
// /api/translate endpoint.
package backend

import "context"

// Engine translates one text into a catalog language (e.g., "french").
type Engine interface {
	Translate(ctx context.Context, text, language string) (string, error)
	// Name identifies the engine in cache keys and metrics.
	Name() string
}
