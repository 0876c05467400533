package device

import (
	"context"
	"sync"
)

// Utterance is one call recorded by Recorder.Speak.
type Utterance struct {
	Text   string
	Locale string
}

// Recorder is an in-memory speaker and clipboard for tests and headless
// runs.
type Recorder struct {
	mu         sync.Mutex
	utterances []Utterance
	clipboard  []string

	// Err, when set, is returned by every call.
	Err error
}

// Speak records the utterance.
func (r *Recorder) Speak(ctx context.Context, text, locale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.utterances = append(r.utterances, Utterance{Text: text, Locale: locale})
	return nil
}

// SetText records the clipboard write.
func (r *Recorder) SetText(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.clipboard = append(r.clipboard, text)
	return nil
}

// Utterances returns the recorded speech calls.
func (r *Recorder) Utterances() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Utterance(nil), r.utterances...)
}

// Clipboard returns the last copied text.
func (r *Recorder) Clipboard() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.clipboard) == 0 {
		return "", false
	}
	return r.clipboard[len(r.clipboard)-1], true
}
