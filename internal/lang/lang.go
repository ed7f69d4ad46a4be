// Package lang validates the language tags that scope translatable entities.
//
// Two checks exist on purpose: IsTag is the strict syntactic BCP 47 check
// used when parsing filenames, while IsSupported only looks at the primary
// subtag against the curated list, so "de-CH" is supported because "de" is.
package lang

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported holds the primary subtags content can be authored in. The list
// is bounded by what the translation tooling downstream can handle, not by
// what BCP 47 allows.
var Supported = []string{
	"bg", "cs", "da", "de", "el", "en", "es", "et", "fi", "fr",
	"hu", "it", "ja", "lt", "lv", "nl", "pl", "pt", "ro", "ru",
	"sk", "sl", "sv", "zh",
}

// IsTag reports whether value is a syntactically valid BCP 47 language tag.
func IsTag(value string) bool {
	if value == "" {
		return false
	}
	_, err := language.Parse(value)
	return err == nil
}

// IsSupported reports whether the primary subtag of value is in Supported.
// It deliberately ignores the rest of the tag; full syntax is IsTag's job.
func IsSupported(value string) bool {
	primary, _, _ := strings.Cut(value, "-")
	for _, s := range Supported {
		if s == primary {
			return true
		}
	}
	return false
}

// Check reports whether value is both syntactically valid and supported.
func Check(value string) bool {
	return IsTag(value) && IsSupported(value)
}
