package extract

import (
	"net/url"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog/log"
)

var supportedLanguages = map[string]bool{"nl": true, "en": true, "de": true}

// ukDomainsCom lists known British outlets on .com domains; anything under
// .uk is recognized automatically.
var ukDomainsCom = map[string]bool{
	"bbc.com":         true,
	"theguardian.com": true,
	"thetimes.com":    true,
	"ft.com":          true,
	"economist.com":   true,
	"reuters.com":     true,
}

// detectLanguage returns nl, en, en-GB or de, falling back to nl when
// detection fails or the language is unsupported. English from a known UK
// domain refines to en-GB so British voices get picked.
func detectLanguage(text, rawURL, source string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		log.Warn().Msg("language detection unreliable, falling back to nl")
		return "nl"
	}
	lang := info.Lang.Iso6391()
	if !supportedLanguages[lang] {
		log.Info().Str("language", lang).Msg("language unsupported, falling back to nl")
		return "nl"
	}
	if lang == "en" {
		domain := normalizeDomain(rawURL)
		if domain == "" {
			domain = normalizeDomain(source)
		}
		if strings.HasSuffix(domain, ".uk") || ukDomainsCom[domain] {
			return "en-GB"
		}
	}
	return lang
}

func normalizeDomain(value string) string {
	if value == "" {
		return ""
	}
	host := value
	if parsed, err := url.Parse(value); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	}
	return strings.ToLower(strings.TrimPrefix(host, "www."))
}
