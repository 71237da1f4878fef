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

const elevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabs is the primary provider. Long scripts are chunked against its
// per-request character ceiling.
type ElevenLabs struct {
	APIKey  string
	Voices  map[string]string
	ModelID string
	BaseURL string
	Client  *http.Client
}

func NewElevenLabs(apiKey string, voices map[string]string, modelID string) *ElevenLabs {
	return &ElevenLabs{
		APIKey:  apiKey,
		Voices:  voices,
		ModelID: modelID,
		BaseURL: elevenLabsBaseURL,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *ElevenLabs) Name() string { return "elevenlabs" }

func (p *ElevenLabs) Configured() bool {
	return p.APIKey != "" && len(p.Voices) > 0
}

func (p *ElevenLabs) MaxRequestBytes() int { return 9500 }

func (p *ElevenLabs) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	voice := resolveVoice(p.Voices, language, "nl")
	if voice == "" {
		return nil, fmt.Errorf("no ElevenLabs voice for language %q", language)
	}
	log.Info().Str("voice", voice).Str("model", p.ModelID).Int("chars", len(text)).
		Msg("synthesizing (ElevenLabs)")

	body, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": p.ModelID,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", p.BaseURL, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, detail)
	}
	return io.ReadAll(resp.Body)
}
