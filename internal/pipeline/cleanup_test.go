package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-podcaster/internal/models"
	"news-podcaster/internal/pipeline"
	"news-podcaster/internal/test"
)

var episodeColumns = []string{
	"id", "title", "source", "source_url", "article_text", "script",
	"audio_filename", "duration_seconds", "image_url", "status",
	"error_message", "created_at",
}

func addEpisodeRow(rows *sqlmock.Rows, id uuid.UUID, audioFilename, imageURL string, createdAt time.Time) *sqlmock.Rows {
	var audio, image interface{}
	if audioFilename != "" {
		audio = audioFilename
	}
	if imageURL != "" {
		image = imageURL
	}
	return rows.AddRow(id, "Title", nil, nil, "text", nil, audio, nil, image,
		models.StatusCompleted, nil, createdAt)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCleanupExpiredRemovesArtifacts(t *testing.T) {
	_, mock := test.NewMockDB(t)
	audioDir := t.TempDir()
	imagesDir := t.TempDir()

	touch(t, filepath.Join(audioDir, "old.mp3"))
	touch(t, filepath.Join(audioDir, "old.vtt"))
	touch(t, filepath.Join(imagesDir, "old.jpg"))

	rows := sqlmock.NewRows(episodeColumns)
	addEpisodeRow(rows, uuid.New(), "old.mp3", "https://pod.example.org/images/old.jpg",
		time.Now().Add(-20*24*time.Hour))
	mock.ExpectQuery("DELETE FROM episodes WHERE created_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	err := pipeline.CleanupExpired(14*24*time.Hour, audioDir, imagesDir)

	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(audioDir, "old.mp3"))
	assert.NoFileExists(t, filepath.Join(audioDir, "old.vtt"))
	assert.NoFileExists(t, filepath.Join(imagesDir, "old.jpg"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupOrphansDeletesMissingAudio(t *testing.T) {
	_, mock := test.NewMockDB(t)
	audioDir := t.TempDir()
	imagesDir := t.TempDir()

	present := uuid.New()
	orphan := uuid.New()
	pending := uuid.New()
	touch(t, filepath.Join(audioDir, "present.mp3"))

	list := sqlmock.NewRows(episodeColumns)
	addEpisodeRow(list, present, "present.mp3", "", time.Now())
	addEpisodeRow(list, orphan, "gone.mp3", "", time.Now())
	addEpisodeRow(list, pending, "", "", time.Now())
	mock.ExpectQuery("SELECT \\* FROM episodes ORDER BY created_at").
		WithArgs(200).
		WillReturnRows(list)

	deleted := sqlmock.NewRows(episodeColumns)
	addEpisodeRow(deleted, orphan, "gone.mp3", "", time.Now())
	mock.ExpectQuery("DELETE FROM episodes WHERE id").
		WithArgs(orphan).
		WillReturnRows(deleted)

	err := pipeline.CleanupOrphans(audioDir, imagesDir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(audioDir, "present.mp3"),
		"episodes with audio on disk are untouched")
	assert.NoError(t, mock.ExpectationsWereMet(),
		"episodes without an audio filename are skipped")
}

func TestRemoveArtifactsSkipsExternalImages(t *testing.T) {
	audioDir := t.TempDir()
	imagesDir := t.TempDir()
	touch(t, filepath.Join(imagesDir, "cover.jpg"))

	audio := "ep.mp3"
	external := "https://cdn.example.org/somewhere/cover.jpg"
	ep := models.Episode{AudioFilename: &audio, ImageURL: &external}

	pipeline.RemoveArtifacts(ep, audioDir, imagesDir)

	assert.FileExists(t, filepath.Join(imagesDir, "cover.jpg"),
		"only locally hosted images are removed")
}
