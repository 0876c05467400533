package livetl

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput marks text that is empty after trimming. No request is
	// ever sent for it.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrUnknownLanguage is returned for a language key outside the catalog.
	ErrUnknownLanguage = errors.New("unknown target language")
	// ErrClosed is returned by operations on a closed Controller.
	ErrClosed = errors.New("controller is closed")
)

// ServiceError indicates the translation service answered, but reported a failure.
type ServiceError struct {
	StatusCode int    // HTTP status of the response
	Message    string // Value of the "error" field, if any
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service error (%d)", e.StatusCode)
}

// NetworkError indicates a transport-level failure: no response, a timeout,
// or a body that could not be decoded.
type NetworkError struct {
	Message string
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation backend failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// classify maps a Translator error to the outcome shown to the user.
// Anything that is not a ServiceError counts as a network failure.
func classify(err error) Outcome {
	var svc *ServiceError
	if errors.As(err, &svc) {
		return OutcomeTranslationError
	}
	return OutcomeNetworkError
}
