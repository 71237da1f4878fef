package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugMaxRunes = 50

var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug reduces a title to an ASCII filename fragment: diacritics folded,
// anything but alphanumerics, dash, underscore and space dropped, spaces
// turned into underscores. An empty result becomes "podcast".
func Slug(title string) string {
	r := []rune(title)
	if len(r) > slugMaxRunes {
		r = r[:slugMaxRunes]
	}
	folded, _, err := transform.String(asciiFold, string(r))
	if err != nil {
		folded = string(r)
	}

	var b strings.Builder
	for _, c := range folded {
		switch {
		case c > unicode.MaxASCII:
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '-' || c == '_' || c == ' ':
			b.WriteRune(c)
		}
	}
	slug := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if slug == "" {
		return "podcast"
	}
	return slug
}
