package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// whisperSegments sends the finished audio to the transcription API asking
// for verbose timestamped output and maps the response to cue segments.
// Non-positive segment durations are widened to a minimum positive span.
func (g *Generator) whisperSegments(ctx context.Context, audioPath, language string) ([]Segment, error) {
	if g.APIKey == "" {
		return nil, fmt.Errorf("transcription API key missing")
	}
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}
	defer f.Close()

	lang, _, _ := strings.Cut(language, "-")
	if lang == "" {
		lang = "nl"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	w.WriteField("model", "whisper-1")
	w.WriteField("response_format", "verbose_json")
	w.WriteField("language", lang)
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transcription: status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("transcription: decode response: %w", err)
	}

	segments := make([]Segment, 0, len(payload.Segments))
	for _, s := range payload.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		end := s.End
		if end <= s.Start {
			end = s.Start + 0.5
		}
		segments = append(segments, Segment{Start: s.Start, End: end, Text: text})
	}
	return segments, nil
}
