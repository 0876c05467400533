package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZaguanLabs/livetl"
)

// MockEngine is a dictionary-backed engine for local runs and tests.
type MockEngine struct {
	// Translations maps language -> source text -> translation.
	Translations map[string]map[string]string
	// Err is returned instead of a translation when set.
	Err error

	mu        sync.Mutex
	callCount int
}

// NewMockEngine creates a mock engine with a few default phrases.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Translations: map[string]map[string]string{
			"french":  {"hello": "bonjour", "thank you": "merci", "good morning": "bonjour"},
			"german":  {"hello": "hallo", "thank you": "danke", "good morning": "guten Morgen"},
			"italian": {"hello": "ciao", "thank you": "grazie", "good morning": "buongiorno"},
			"arabic":  {"hello": "مرحبا", "thank you": "شكرا", "good morning": "صباح الخير"},
		},
	}
}

// Translate returns the dictionary entry, or the text tagged with the
// language when unknown.
func (m *MockEngine) Translate(ctx context.Context, text, language string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++

	if m.Err != nil {
		return "", m.Err
	}

	lang := livetl.NormalizeLanguage(language)
	if translation, ok := m.Translations[lang][text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s] %s", lang, text), nil
}

// Name implements Engine.
func (m *MockEngine) Name() string {
	return "mock"
}

// CallCount returns the number of times Translate was called.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Verify MockEngine implements Engine
var _ Engine = (*MockEngine)(nil)
