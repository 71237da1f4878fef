package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"news-podcaster/internal/audio"
)

// Chain tries providers in priority order until one produces audio. Each
// attempt chunks the script against the provider's request ceiling,
// synthesizes the chunks independently, reassembles them into one file and
// appends the outro. A failing provider gets exactly one attempt before the
// chain moves on.
type Chain struct {
	Providers []Provider
	OutroPath string
}

func NewChain(outroPath string, providers ...Provider) *Chain {
	return &Chain{Providers: providers, OutroPath: outroPath}
}

// GenerateAudio renders script to an MP3 at outputPath. It returns an error
// only when every configured provider has been exhausted; the error names
// the attempted providers.
func (c *Chain) GenerateAudio(ctx context.Context, script, language, outputPath string) error {
	var attempted []string
	for _, provider := range c.Providers {
		if !provider.Configured() {
			log.Debug().Str("provider", provider.Name()).Msg("provider not configured, skipping")
			continue
		}
		attempted = append(attempted, provider.Name())
		if err := c.attempt(ctx, provider, script, language, outputPath); err != nil {
			log.Warn().Err(err).Str("provider", provider.Name()).
				Msg("provider failed, falling through")
			continue
		}
		log.Info().Str("provider", provider.Name()).Str("file", outputPath).
			Msg("audio generated")
		return nil
	}
	if len(attempted) == 0 {
		return fmt.Errorf("no TTS provider configured")
	}
	return fmt.Errorf("all TTS providers failed (attempted: %s)", strings.Join(attempted, ", "))
}

func (c *Chain) attempt(ctx context.Context, provider Provider, script, language, outputPath string) error {
	chunks := SplitText(script, provider.MaxRequestBytes())
	if len(chunks) == 0 {
		return fmt.Errorf("empty script")
	}

	segments := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		data, err := provider.Synthesize(ctx, chunk, language)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		segments = append(segments, data)
	}

	if err := audio.WriteSegments(segments, outputPath); err != nil {
		return fmt.Errorf("assemble segments: %w", err)
	}

	// The outro is cosmetic; a missing asset or decode failure never fails
	// the attempt.
	if err := audio.AppendOutro(outputPath, c.OutroPath); err != nil {
		log.Warn().Err(err).Msg("outro append failed, episode saved without outro")
	}
	return nil
}
