package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Episode is one persisted unit of work, from article submission through
// (optionally) completed audio and transcript. AudioFilename is the join key
// to the on-disk artifacts; the transcript lives next to the audio with a
// .vtt extension.
type Episode struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Source          *string   `db:"source"`
	SourceURL       *string   `db:"source_url"`
	ArticleText     string    `db:"article_text"`
	Script          *string   `db:"script"`
	AudioFilename   *string   `db:"audio_filename"`
	DurationSeconds *int      `db:"duration_seconds"`
	ImageURL        *string   `db:"image_url"`
	Status          string    `db:"status"`
	ErrorMessage    *string   `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
}

// TranscriptFilename derives the caption-track filename from the audio
// filename, or "" when no audio exists yet.
func (e *Episode) TranscriptFilename() string {
	if e.AudioFilename == nil || *e.AudioFilename == "" {
		return ""
	}
	name := *e.AudioFilename
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i] + ".vtt"
		}
	}
	return name + ".vtt"
}
