// Package pipeline sequences the episode processing stages: script
// generation, text-to-speech, transcript, artwork and persistence. Each
// submitted article runs as one detached background task; the orchestrator
// is the single boundary that converts stage failures into a sanitized
// terminal episode state.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/db"
	"news-podcaster/internal/models"
)

// wordsPerMinute drives the stored duration estimate. It is never replaced
// by a measured audio duration.
const wordsPerMinute = 150

// ScriptGenerator produces a spoken-style script for an article.
type ScriptGenerator interface {
	Generate(ctx context.Context, article models.Article) (string, error)
}

// AudioGenerator renders a script to an audio file on disk.
type AudioGenerator interface {
	GenerateAudio(ctx context.Context, script, language, outputPath string) error
}

// TranscriptGenerator writes a caption track for finished audio. It returns
// the written path or "" and never fails the pipeline.
type TranscriptGenerator interface {
	Generate(ctx context.Context, script, audioPath, language string, durationSeconds int) string
}

// Sender delivers fire-and-forget notifications.
type Sender interface {
	Send(title, message, priority, tags string) bool
}

// Processor owns one episode row per run. Collaborators are injected so
// tests can fake each stage.
type Processor struct {
	Scripts     ScriptGenerator
	Audio       AudioGenerator
	Transcripts TranscriptGenerator
	Notifier    Sender

	AudioDir  string
	ImagesDir string
	BaseURL   string

	// ProcessArtwork downloads and hosts episode cover art; nil disables
	// the stage.
	ProcessArtwork func(imageURL, dir string) (string, error)
}

// Process runs the stages strictly in order and records the terminal state.
// It is meant to run in its own goroutine; the error return exists for the
// CLI and for tests.
func (p *Processor) Process(ctx context.Context, episodeID uuid.UUID, article models.Article) error {
	logger := log.With().Str("episode", episodeID.String()).Str("title", article.Title).Logger()
	logger.Info().Msg("processing started")

	script, err := p.Scripts.Generate(ctx, article)
	if err != nil {
		return p.fail(episodeID, article, "scriptgen", err)
	}
	logger.Info().Int("chars", len(script)).Int("words", wordCount(script)).Msg("script generated")

	if err := db.RecordScript(episodeID, script); err != nil {
		return p.fail(episodeID, article, "database", err)
	}

	filename := AudioFilename(article.Title, time.Now())
	if err := p.Audio.GenerateAudio(ctx, script, article.Language, filepath.Join(p.AudioDir, filename)); err != nil {
		return p.fail(episodeID, article, "tts", err)
	}

	durationSeconds := EstimateDuration(script)

	if p.Transcripts != nil {
		p.Transcripts.Generate(ctx, script, filepath.Join(p.AudioDir, filename), article.Language, durationSeconds)
	}

	var imageURL *string
	if article.ImageURL != "" && p.ProcessArtwork != nil {
		if name, aerr := p.ProcessArtwork(article.ImageURL, p.ImagesDir); aerr != nil {
			logger.Warn().Err(aerr).Msg("artwork processing failed, episode without cover art")
		} else {
			hosted := strings.TrimRight(p.BaseURL, "/") + "/images/" + name
			imageURL = &hosted
		}
	}

	if err := db.RecordCompleted(episodeID, filename, durationSeconds, imageURL); err != nil {
		return p.fail(episodeID, article, "database", err)
	}

	logger.Info().Str("file", filename).Int("duration", durationSeconds).Msg("processing completed")
	if p.Notifier != nil {
		p.Notifier.Send(
			"Podcast ready: "+article.Title,
			fmt.Sprintf("Duration: %dm%02ds", durationSeconds/60, durationSeconds%60),
			"", "white_check_mark,podcast")
	}
	return nil
}

// fail records the terminal failure with a sanitized message: only the
// failing stage and the first line of the error, never a stack trace or a
// filesystem path.
func (p *Processor) fail(episodeID uuid.UUID, article models.Article, stage string, err error) error {
	log.Error().Err(err).Str("episode", episodeID.String()).Str("stage", stage).
		Msg("processing failed")
	msg := SanitizeError(stage, err)
	if dbErr := db.RecordFailure(episodeID, msg); dbErr != nil {
		log.Error().Err(dbErr).Str("episode", episodeID.String()).
			Msg("could not record failure state")
	}
	if p.Notifier != nil {
		p.Notifier.Send("Podcast failed: "+article.Title, msg, "high", "warning,podcast")
	}
	return fmt.Errorf("%s", msg)
}

const maxErrorLen = 200

// SanitizeError keeps the failure category and the first line of the error
// message, capped in length on a rune boundary.
func SanitizeError(category string, err error) string {
	line := err.Error()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) > maxErrorLen {
		cut := maxErrorLen
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		line = line[:cut]
	}
	return category + ": " + line
}

// EstimateDuration derives whole seconds from the script's word count at a
// fixed reading speed. An approximation, not a measured audio duration.
func EstimateDuration(script string) int {
	return wordCount(script) * 60 / wordsPerMinute
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// AudioFilename builds a filesystem-safe, collision-resistant, readable
// name: timestamp plus a slug of the title.
func AudioFilename(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s.mp3", now.Format("20060102_150405"), Slug(title))
}
