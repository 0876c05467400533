package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaguanLabs/livetl"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &livetl.ProviderError{Message: "rate limited", Retryable: true}
		}
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, callCount)
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "", &livetl.ProviderError{Message: "invalid API key", Retryable: false}
	})

	require.Error(t, err)
	assert.Equal(t, 1, callCount, "non-retryable errors should not be retried")
}

func TestWithRetry_MaxRetriesExceeded(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "", &livetl.ProviderError{Message: "server error", Retryable: true}
	})

	require.Error(t, err)
	assert.Equal(t, 4, callCount, "initial attempt plus 3 retries")
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Second}

	callCount := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		callCount++
		return "", &livetl.ProviderError{Message: "busy", Retryable: true}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(&livetl.ProviderError{Retryable: true}))
	assert.False(t, IsRetryable(&livetl.ProviderError{Retryable: false}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestRetryableEngine(t *testing.T) {
	inner := &scriptedEngine{results: []scriptedResult{
		{err: &livetl.ProviderError{Message: "503", Retryable: true}},
		{text: "bonjour"},
	}}
	e := NewRetryableEngine(inner, fastRetry())

	got, err := e.Translate(context.Background(), "hello", "french")
	require.NoError(t, err)
	assert.Equal(t, "bonjour", got)
	assert.Equal(t, int32(2), inner.calls.Load())
}
