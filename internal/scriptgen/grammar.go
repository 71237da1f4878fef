package scriptgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// languageToolCodes maps detected article languages to LanguageTool language
// parameters.
var languageToolCodes = map[string]string{
	"nl":    "nl",
	"en":    "en-US",
	"en-GB": "en-GB",
	"de":    "de-DE",
}

// grammarMatch is one LanguageTool finding. Offset and Length count
// characters.
type grammarMatch struct {
	Offset       int `json:"offset"`
	Length       int `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		ID string `json:"id"`
	} `json:"rule"`
}

// fixGrammar sends text through the LanguageTool check endpoint and applies
// the first suggestion of every match, last match first so earlier offsets
// stay valid. Any failure returns the text unchanged.
func (g *Generator) fixGrammar(ctx context.Context, text, language string) string {
	if g.GrammarURL == "" {
		return text
	}
	code, ok := languageToolCodes[language]
	if !ok {
		code = "nl"
	}

	form := url.Values{
		"text":        {text},
		"language":    {code},
		"enabledOnly": {"false"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.GrammarURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.Client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("grammar check unreachable, skipped")
		return text
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("grammar check failed, skipped")
		return text
	}

	var payload struct {
		Matches []grammarMatch `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("grammar check response unreadable, skipped")
		return text
	}
	return applyMatches(text, payload.Matches)
}

// applyMatches splices the suggested replacements into text. LanguageTool
// reports offset and length in characters, not bytes, so the splice works on
// runes.
func applyMatches(text string, matches []grammarMatch) string {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Offset > matches[j].Offset
	})
	corrected := []rune(text)
	for _, match := range matches {
		if len(match.Replacements) == 0 {
			continue
		}
		end := match.Offset + match.Length
		if match.Offset < 0 || end > len(corrected) {
			continue
		}
		fix := match.Replacements[0].Value
		original := string(corrected[match.Offset:end])
		spliced := append([]rune{}, corrected[:match.Offset]...)
		spliced = append(spliced, []rune(fix)...)
		corrected = append(spliced, corrected[end:]...)
		log.Debug().Str("from", original).Str("to", fix).Str("rule", match.Rule.ID).
			Msg("grammar fix applied")
	}
	return string(corrected)
}
