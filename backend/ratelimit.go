package backend

import (
	"context"
	"sync"
	"time"

	"github.com/ZaguanLabs/livetl"
)

// RateLimiter controls the rate of engine calls using a token bucket algorithm.
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst, // Start with full bucket
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}

		r.mu.Lock()
		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	if r.tokens >= 1 {
		r.tokens--
		return true
	}

	return false
}

// refill adds tokens based on elapsed time (must be called with lock held).
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedEngine wraps an Engine with rate limiting.
type RateLimitedEngine struct {
	engine  Engine
	limiter *RateLimiter
}

// NewRateLimitedEngine creates a new rate-limited engine.
func NewRateLimitedEngine(engine Engine, cfg RateLimitConfig) *RateLimitedEngine {
	return &RateLimitedEngine{
		engine:  engine,
		limiter: NewRateLimiter(cfg),
	}
}

// Translate implements Engine with rate limiting.
func (e *RateLimitedEngine) Translate(ctx context.Context, text, language string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", &livetl.ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return e.engine.Translate(ctx, text, language)
}

// Name returns the wrapped engine's name.
func (e *RateLimitedEngine) Name() string {
	return e.engine.Name()
}

// Limiter returns the underlying rate limiter for inspection.
func (e *RateLimitedEngine) Limiter() *RateLimiter {
	return e.limiter
}

// Verify RateLimitedEngine implements Engine
var _ Engine = (*RateLimitedEngine)(nil)
