package tts

import (
	"context"
	"strings"
)

// Provider is one text-to-speech backend. Implementations are independently
// constructible so the fallback chain can be assembled (and mocked) as a
// plain ordered list.
type Provider interface {
	// Name identifies the provider in logs and in the terminal
	// all-providers-failed error.
	Name() string
	// Configured reports whether credentials and voice selection are
	// present. Unconfigured providers are skipped, not attempted.
	Configured() bool
	// MaxRequestBytes is the provider's per-request size ceiling in UTF-8
	// bytes; 0 means no ceiling. Scripts over the ceiling are chunked and
	// each chunk synthesized independently.
	MaxRequestBytes() int
	// Synthesize renders text to encoded MP3 audio using the voice
	// resolved for the given language code.
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// resolveVoice picks a voice from a language-keyed table: exact language,
// then base language ("en-GB" → "en"), then the default locale.
func resolveVoice(table map[string]string, language, fallback string) string {
	if v, ok := table[language]; ok {
		return v
	}
	if base, _, found := strings.Cut(language, "-"); found {
		if v, ok := table[base]; ok {
			return v
		}
	}
	if v, ok := table[fallback]; ok {
		return v
	}
	return ""
}
