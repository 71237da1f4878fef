package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/models"
)

// CreateEpisode inserts a new episode in the processing state and returns it.
func CreateEpisode(articleText, title string, source, sourceURL *string) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, `
		INSERT INTO episodes (id, title, source, source_url, article_text, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`,
		uuid.New(), title, source, sourceURL, articleText, models.StatusProcessing)
	return episode, err
}

// RecordScript stores the generated script. Unknown IDs are a no-op with a
// warning; the pipeline owns its row so this only happens if the episode was
// deleted mid-run.
func RecordScript(id uuid.UUID, script string) error {
	res, err := DB.Exec("UPDATE episodes SET script = $1 WHERE id = $2", script, id)
	return warnIfMissing(res, err, id, "record script")
}

// RecordCompleted marks the episode completed, setting the audio fields and
// status together. imageURL may be nil when no artwork was produced.
func RecordCompleted(id uuid.UUID, audioFilename string, durationSeconds int, imageURL *string) error {
	res, err := DB.Exec(`
		UPDATE episodes
		SET status = $1, audio_filename = $2, duration_seconds = $3, image_url = $4
		WHERE id = $5 AND status = $6`,
		models.StatusCompleted, audioFilename, durationSeconds, imageURL, id, models.StatusProcessing)
	return warnIfMissing(res, err, id, "record completed")
}

// RecordFailure marks the episode failed with a sanitized one-line message.
func RecordFailure(id uuid.UUID, message string) error {
	res, err := DB.Exec(`
		UPDATE episodes
		SET status = $1, error_message = $2
		WHERE id = $3 AND status = $4`,
		models.StatusFailed, message, id, models.StatusProcessing)
	return warnIfMissing(res, err, id, "record failure")
}

func warnIfMissing(res sql.Result, err error, id uuid.UUID, op string) error {
	if err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		log.Warn().Str("episode", id.String()).Msgf("%s: episode not found or already terminal", op)
	}
	return nil
}

// GetEpisode fetches one episode by ID.
func GetEpisode(id uuid.UUID) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

// ListEpisodes returns the most recent episodes regardless of status,
// newest first.
func ListEpisodes(limit int) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"SELECT * FROM episodes ORDER BY created_at DESC LIMIT $1", limit)
	return episodes, err
}

// ListCompletedEpisodes returns the most recent completed episodes, newest
// first. This is the set published in the feed.
func ListCompletedEpisodes(limit int) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"SELECT * FROM episodes WHERE status = $1 ORDER BY created_at DESC LIMIT $2",
		models.StatusCompleted, limit)
	return episodes, err
}

// DeleteEpisode removes an episode and returns the deleted record so the
// caller can reconcile on-disk artifacts. A missing ID yields sql.ErrNoRows,
// so deleting twice is safe.
func DeleteEpisode(id uuid.UUID) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "DELETE FROM episodes WHERE id = $1 RETURNING *", id)
	return episode, err
}

// DeleteEpisodesOlderThan removes every episode created before now-retention
// and returns the deleted records for artifact reconciliation.
func DeleteEpisodesOlderThan(retention time.Duration) ([]models.Episode, error) {
	cutoff := time.Now().UTC().Add(-retention)
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"DELETE FROM episodes WHERE created_at < $1 RETURNING *", cutoff)
	return episodes, err
}
