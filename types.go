package livetl

import "strings"

// Outcome describes how a translation request resolved.
type Outcome int

const (
	// OutcomeNone means no result is displayed.
	OutcomeNone Outcome = iota
	// OutcomeSuccess means the service returned a translation.
	OutcomeSuccess
	// OutcomeTranslationError means the service answered with a failure payload.
	OutcomeTranslationError
	// OutcomeNetworkError means the request never produced a usable response.
	OutcomeNetworkError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTranslationError:
		return "translation_error"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "none"
	}
}

// Placeholders shown in the output area when a request fails.
// Both failure kinds render the same text; Outcome tells them apart.
const (
	TranslationErrorText = "Translation failed. Please try again."
	NetworkErrorText     = "Translation failed. Please try again."
)

// TranslationRequest is a single outbound translation call.
type TranslationRequest struct {
	Text           string // Source text, already trimmed
	TargetLanguage string // Catalog key (e.g., "french")
}

// Validate reports ErrEmptyInput for blank text and ErrUnknownLanguage for
// a target outside the catalog.
func (r TranslationRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyInput
	}
	if _, ok := LookupLanguage(r.TargetLanguage); !ok {
		return ErrUnknownLanguage
	}
	return nil
}

// TranslationResult is the resolution of a TranslationRequest.
type TranslationResult struct {
	Text    string
	Outcome Outcome
}

// IsZero reports whether no result is displayed.
func (r TranslationResult) IsZero() bool {
	return r.Outcome == OutcomeNone
}

// Phase is the request lifecycle derived from State.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is a snapshot of everything the view renders.
type State struct {
	Text     string            // Current input text, untrimmed
	Language string            // Selected target language key
	Loading  bool              // A request for the current generation is in flight
	Result   TranslationResult // Active result
	Copied   bool              // Transient "copied" indicator
	Revision uint64            // Increases with every published change
}

// Phase derives the lifecycle phase of the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhasePending
	case s.Result.Outcome == OutcomeSuccess:
		return PhaseSuccess
	case s.Result.Outcome == OutcomeTranslationError, s.Result.Outcome == OutcomeNetworkError:
		return PhaseError
	default:
		return PhaseIdle
	}
}
