package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const openAISpeechURL = "https://api.openai.com/v1/audio/speech"

// OpenAI is the secondary provider. It takes a free-form style instruction
// alongside the text, and caps requests at 4096 characters, so long scripts
// go through the chunker.
type OpenAI struct {
	APIKey       string
	Voice        string
	Model        string
	Instructions string
	BaseURL      string
	Client       *http.Client
}

func NewOpenAI(apiKey, voice, model, instructions string) *OpenAI {
	return &OpenAI{
		APIKey:       apiKey,
		Voice:        voice,
		Model:        model,
		Instructions: instructions,
		BaseURL:      openAISpeechURL,
		Client:       &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Configured() bool { return p.APIKey != "" && p.Voice != "" }

func (p *OpenAI) MaxRequestBytes() int { return 4096 }

func (p *OpenAI) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	log.Info().Str("voice", p.Voice).Str("model", p.Model).Int("chars", len(text)).
		Msg("synthesizing (OpenAI)")

	payload := map[string]string{
		"model":           p.Model,
		"voice":           p.Voice,
		"input":           text,
		"response_format": "mp3",
	}
	if p.Instructions != "" {
		payload["instructions"] = p.Instructions
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("openai: status %d: %s", resp.StatusCode, detail)
	}
	return io.ReadAll(resp.Body)
}
