// Package provider defines the translation service clients used by the controller.
package provider

import "github.com/ZaguanLabs/livetl"

// Translator is the interface for translation service clients.
// This is an alias to the main package interface for convenience.
type Translator = livetl.Translator

// TranslationRequest is an alias to the main package type.
type TranslationRequest = livetl.TranslationRequest
