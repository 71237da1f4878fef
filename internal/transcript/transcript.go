// Package transcript produces timed WebVTT caption tracks for episodes,
// either by heuristic word-timing estimation or via a speech-recognition
// provider with the heuristic as safety net.
package transcript

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ModeNone      = "none"
	ModeHeuristic = "heuristic"
	ModeWhisper   = "whisper"

	// minSegmentSeconds keeps heuristic cues from degenerating to zero
	// length on very short sentences.
	minSegmentSeconds = 0.8
)

// Segment is one timed caption cue.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Generator writes a .vtt file next to the episode audio. Mode selects the
// timing source; anything unexpected degrades to no transcript, never to a
// pipeline failure.
type Generator struct {
	Mode      string
	OutputDir string

	// Whisper-mode settings.
	APIKey  string
	BaseURL string
	Client  *http.Client
}

const whisperURL = "https://api.openai.com/v1/audio/transcriptions"

func NewGenerator(mode, outputDir, apiKey string) *Generator {
	return &Generator{
		Mode:      strings.ToLower(strings.TrimSpace(mode)),
		OutputDir: outputDir,
		APIKey:    apiKey,
		BaseURL:   whisperURL,
		Client:    &http.Client{Timeout: 180 * time.Second},
	}
}

// Generate produces the transcript for audioPath and returns the written
// file path, or "" when the mode is off or generation failed. Errors are
// logged here; callers never see them.
func (g *Generator) Generate(ctx context.Context, script, audioPath, language string, durationSeconds int) string {
	mode := g.Mode
	if mode == "" || mode == ModeNone {
		return ""
	}

	var segments []Segment
	switch mode {
	case ModeHeuristic:
		segments = HeuristicSegments(script, durationSeconds)
	case ModeWhisper:
		var err error
		segments, err = g.whisperSegments(ctx, audioPath, language)
		if err != nil || len(segments) == 0 {
			log.Warn().Err(err).Msg("speech recognition yielded no segments, using heuristic timing")
			segments = HeuristicSegments(script, durationSeconds)
		}
	default:
		log.Warn().Str("mode", mode).Msg("unknown transcript mode, transcript skipped")
		return ""
	}

	if len(segments) == 0 {
		return ""
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	out := filepath.Join(g.OutputDir, stem+".vtt")
	if err := writeVTT(segments, out); err != nil {
		log.Warn().Err(err).Str("mode", mode).Msg("transcript generation failed")
		return ""
	}
	log.Info().Str("file", out).Str("mode", mode).Int("segments", len(segments)).
		Msg("transcript saved")
	return out
}

var whitespace = regexp.MustCompile(`\s+`)

// HeuristicSegments allocates each sentence a span proportional to its word
// count, scaled to the target duration. Deterministic for a given script and
// target; the final segment always ends exactly on the target.
func HeuristicSegments(script string, durationSeconds int) []Segment {
	clean := whitespace.ReplaceAllString(strings.TrimSpace(script), " ")
	if clean == "" {
		return nil
	}

	sentences := splitSentences(clean)
	if len(sentences) == 0 {
		sentences = []string{clean}
	}

	wordsTotal := len(strings.Fields(clean))
	if wordsTotal < 1 {
		wordsTotal = 1
	}
	target := float64(durationSeconds)
	if durationSeconds <= 0 {
		estimated := wordsTotal * 60 / 150
		if estimated < 10 {
			estimated = 10
		}
		target = float64(estimated)
	}

	segments := make([]Segment, 0, len(sentences))
	t := 0.0
	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if words < 1 {
			words = 1
		}
		span := target * float64(words) / float64(wordsTotal)
		if span < minSegmentSeconds {
			span = minSegmentSeconds
		}
		end := t + span
		if end > target {
			end = target
		}
		segments = append(segments, Segment{Start: t, End: end, Text: sentence})
		t = end
	}

	// Pin the last cue to the target so players see a clean total.
	last := &segments[len(segments)-1]
	last.End = target
	if last.End < last.Start+0.2 {
		last.End = last.Start + 0.2
	}
	return segments
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ') {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func writeVTT(segments []Segment, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, segment := range segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatTimestamp(segment.Start), formatTimestamp(segment.End), segment.Text)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// formatTimestamp renders seconds as HH:MM:SS.mmm.
func formatTimestamp(seconds float64) string {
	ms := int(seconds*1000 + 0.5)
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
