package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a mock translation service for testing.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // Returned instead of a translation when set

	mu          sync.Mutex
	callCount   int
	lastRequest *TranslationRequest
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"hello":       "bonjour",
			"world":       "monde",
			"hello world": "bonjour le monde",
			"thank you":   "merci",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	// Return bracketed text for unknown translations
	return fmt.Sprintf("[%s]", req.Text), nil
}

// CallCount returns the number of times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, or nil.
func (m *MockProvider) LastRequest() *TranslationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements Translator
var _ Translator = (*MockProvider)(nil)
