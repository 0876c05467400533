package livetl

import (
	"sort"
	"strings"
)

// Language is an entry of the fixed target language catalog.
type Language struct {
	Code        string // Catalog key sent to the service (e.g., "french")
	DisplayName string // Human-readable name (e.g., "French")
}

// Catalog maps language keys to display names.
var Catalog = map[string]string{
	"arabic":  "Arabic",
	"french":  "French",
	"german":  "German",
	"italian": "Italian",
}

// DefaultLanguage is selected when no language is configured.
const DefaultLanguage = "french"

// SpeechLocales maps language keys to the locale used for speech playback.
var SpeechLocales = map[string]string{
	"french":  "fr-FR",
	"german":  "de-DE",
	"italian": "it-IT",
	"arabic":  "ar-SA",
	"english": "en-US",
}

// DefaultSpeechLocale is used for keys missing from SpeechLocales.
const DefaultSpeechLocale = "en-US"

// RTLLanguages contains language keys that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"arabic": true,
}

// Languages returns the catalog sorted by code.
func Languages() []Language {
	langs := make([]Language, 0, len(Catalog))
	for code, name := range Catalog {
		langs = append(langs, Language{Code: code, DisplayName: name})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs
}

// LookupLanguage returns the catalog entry for code.
// Codes are matched case-insensitively.
func LookupLanguage(code string) (Language, bool) {
	key := NormalizeLanguage(code)
	name, ok := Catalog[key]
	if !ok {
		return Language{}, false
	}
	return Language{Code: key, DisplayName: name}, true
}

// NormalizeLanguage lowercases and trims a language key.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// SpeechLocale returns the playback locale for a language key (e.g., "french" → "fr-FR").
// Falls back to DefaultSpeechLocale.
func SpeechLocale(key string) string {
	if locale, ok := SpeechLocales[NormalizeLanguage(key)]; ok {
		return locale
	}
	return DefaultSpeechLocale
}

// ISOCode returns the two-letter language code for a key (e.g., "german" → "de").
func ISOCode(key string) string {
	return strings.SplitN(SpeechLocale(key), "-", 2)[0]
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(key string) string {
	if RTLLanguages[NormalizeLanguage(key)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(key string) bool {
	return GetDirection(key) == "rtl"
}
