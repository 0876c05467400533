package device

import (
	"context"
	"strings"
)

// CommandSpeaker reads text aloud with a speech synthesizer such as espeak-ng.
type CommandSpeaker struct {
	argv []string
}

var speakerCandidates = [][]string{
	{"espeak-ng", "-v", LocalePlaceholder},
	{"espeak", "-v", LocalePlaceholder},
	{"say"},
}

// NewCommandSpeaker creates a speaker from a command line. Occurrences of
// {locale} are replaced with the lower-cased locale on every call.
func NewCommandSpeaker(line string) (*CommandSpeaker, error) {
	argv, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	return &CommandSpeaker{argv: argv}, nil
}

// DetectSpeaker picks the first installed synthesizer.
func DetectSpeaker() (*CommandSpeaker, error) {
	argv, err := detect(speakerCandidates)
	if err != nil {
		return nil, err
	}
	return &CommandSpeaker{argv: argv}, nil
}

// Speak blocks until playback finishes or ctx is cancelled.
func (s *CommandSpeaker) Speak(ctx context.Context, text, locale string) error {
	return run(ctx, s.Argv(locale), text)
}

// Argv returns the command line used for locale.
func (s *CommandSpeaker) Argv(locale string) []string {
	out := make([]string, len(s.argv))
	for i, a := range s.argv {
		out[i] = strings.ReplaceAll(a, LocalePlaceholder, strings.ToLower(locale))
	}
	return out
}
