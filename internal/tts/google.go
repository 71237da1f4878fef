package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const googleTTSURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

// defaultGoogleVoices is used for languages without an explicit override.
var defaultGoogleVoices = map[string]string{
	"nl":    "nl-NL-Wavenet-F",
	"en":    "en-US-Neural2-F",
	"en-GB": "en-GB-Neural2-F",
	"de":    "de-DE-Neural2-F",
}

// Google is the tertiary provider. Requests are capped at 5000 bytes of
// input, so long scripts go through the chunker.
type Google struct {
	APIKey  string
	Voices  map[string]string
	BaseURL string
	Client  *http.Client
}

func NewGoogle(apiKey string, voices map[string]string) *Google {
	merged := map[string]string{}
	for lang, voice := range defaultGoogleVoices {
		merged[lang] = voice
	}
	for lang, voice := range voices {
		merged[lang] = voice
	}
	return &Google{
		APIKey:  apiKey,
		Voices:  merged,
		BaseURL: googleTTSURL,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *Google) Name() string { return "google" }

func (p *Google) Configured() bool { return p.APIKey != "" }

func (p *Google) MaxRequestBytes() int { return 5000 }

func (p *Google) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	voice := resolveVoice(p.Voices, language, "nl")
	// Voice names embed their locale: nl-NL-Wavenet-F → nl-NL.
	languageCode := voice
	if parts := strings.SplitN(voice, "-", 3); len(parts) >= 2 {
		languageCode = parts[0] + "-" + parts[1]
	}
	log.Info().Str("voice", voice).Int("chars", len(text)).Msg("synthesizing (Google Cloud)")

	body, err := json.Marshal(map[string]any{
		"input": map[string]string{"text": text},
		"voice": map[string]string{
			"languageCode": languageCode,
			"name":         voice,
		},
		"audioConfig": map[string]any{
			"audioEncoding":   "MP3",
			"sampleRateHertz": 44100,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"?key="+p.APIKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google tts: status %d: %s", resp.StatusCode, detail)
	}

	var out struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("google tts: decode response: %w", err)
	}
	return base64.StdEncoding.DecodeString(out.AudioContent)
}
