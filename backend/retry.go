package backend

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/livetl"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}

// IsRetryable reports whether err is a ProviderError marked retryable.
// Context errors are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *livetl.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return false
}

// RetryableEngine wraps an Engine with retry logic.
type RetryableEngine struct {
	engine Engine
	config RetryConfig
}

// NewRetryableEngine creates a new engine with retry logic.
func NewRetryableEngine(engine Engine, cfg RetryConfig) *RetryableEngine {
	return &RetryableEngine{
		engine: engine,
		config: cfg,
	}
}

// Translate implements Engine with retry logic.
func (e *RetryableEngine) Translate(ctx context.Context, text, language string) (string, error) {
	return WithRetry(ctx, e.config, func() (string, error) {
		return e.engine.Translate(ctx, text, language)
	})
}

// Name returns the wrapped engine's name.
func (e *RetryableEngine) Name() string {
	return e.engine.Name()
}

// Verify RetryableEngine implements Engine
var _ Engine = (*RetryableEngine)(nil)
