// Package scriptgen rewrites an extracted article into a spoken-style
// podcast script via the Anthropic messages API, then runs the result
// through a grammar-correction pass.
package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"news-podcaster/internal/models"
)

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 2000
)

const systemPrompt = `You are an editor for a personal news podcast.
Rewrite the article below into a spoken podcast script in the article's language.
Short sentences, active voice, no jargon without explanation.
Spell out numbers and expand abbreviations on first use.
Work the source and subject into a varied opening line, mention the date only when one is given.
Close with a one-sentence summary.
Keep it under roughly 1500 characters.
Return only the spoken script as plain text: no markdown, no headings, no placeholders, and no invented facts.`

// Generator produces podcast scripts. A zero BaseURL uses the public API.
type Generator struct {
	APIKey  string
	Model   string
	BaseURL string
	// GrammarURL points at a LanguageTool-compatible endpoint; empty
	// disables the correction pass.
	GrammarURL string
	Client     *http.Client
}

func NewGenerator(apiKey, model string) *Generator {
	return &Generator{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    anthropicURL,
		GrammarURL: "https://api.languagetool.org/v2/check",
		Client:     &http.Client{Timeout: 120 * time.Second},
	}
}

// Generate returns the spoken script for article. The grammar pass is
// best-effort: when the service is unreachable the uncorrected script comes
// back unchanged.
func (g *Generator) Generate(ctx context.Context, article models.Article) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	var parts []string
	if article.Title != "" {
		parts = append(parts, "Title: "+article.Title)
	}
	if article.Source != "" {
		parts = append(parts, "Source: "+article.Source)
	}
	if article.Date != "" {
		parts = append(parts, "Date: "+article.Date)
	}
	parts = append(parts, "\nArticle:\n"+article.Text)

	body, err := json.Marshal(map[string]any{
		"model":      g.Model,
		"max_tokens": maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": strings.Join(parts, "\n")},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", g.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("script generation: status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("script generation: decode response: %w", err)
	}
	if len(payload.Content) == 0 || strings.TrimSpace(payload.Content[0].Text) == "" {
		return "", fmt.Errorf("script generation: empty response")
	}
	script := payload.Content[0].Text

	script = g.fixGrammar(ctx, script, article.Language)
	log.Debug().Int("chars", len(script)).Msg("script generated")
	return script, nil
}
