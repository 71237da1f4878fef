package pipeline

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"news-podcaster/internal/db"
	"news-podcaster/internal/models"
)

// orphanScanLimit bounds the recent window the orphan sweep inspects.
const orphanScanLimit = 200

// CleanupExpired removes episodes older than the retention period together
// with their on-disk artifacts. Runs once at startup; idempotent.
func CleanupExpired(retention time.Duration, audioDir, imagesDir string) error {
	episodes, err := db.DeleteEpisodesOlderThan(retention)
	if err != nil {
		return err
	}
	for _, ep := range episodes {
		RemoveArtifacts(ep, audioDir, imagesDir)
	}
	if len(episodes) > 0 {
		log.Info().Int("count", len(episodes)).Dur("retention", retention).
			Msg("cleanup: expired episodes removed")
	}
	return nil
}

// CleanupOrphans removes database records whose audio file is missing on
// disk, e.g. after a deploy without persistent storage. Transcript and image
// removal is still attempted even though the audio is already gone.
func CleanupOrphans(audioDir, imagesDir string) error {
	episodes, err := db.ListEpisodes(orphanScanLimit)
	if err != nil {
		return err
	}
	removed := 0
	for _, ep := range episodes {
		if ep.AudioFilename == nil || *ep.AudioFilename == "" {
			continue
		}
		if _, statErr := os.Stat(filepath.Join(audioDir, *ep.AudioFilename)); statErr == nil {
			continue
		}
		deleted, delErr := db.DeleteEpisode(ep.ID)
		if delErr != nil {
			log.Warn().Err(delErr).Str("episode", ep.ID.String()).Msg("orphan delete failed")
			continue
		}
		RemoveArtifacts(deleted, audioDir, imagesDir)
		removed++
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("cleanup: orphaned episodes removed")
	}
	return nil
}

// RemoveArtifacts best-effort deletes the audio file, the derived transcript
// and a locally hosted image for a deleted episode. Missing files are not
// errors; artifacts must never be left dangling after a record is gone.
func RemoveArtifacts(ep models.Episode, audioDir, imagesDir string) {
	if ep.AudioFilename != nil && *ep.AudioFilename != "" {
		removeFile(filepath.Join(audioDir, *ep.AudioFilename))
		if vtt := ep.TranscriptFilename(); vtt != "" {
			removeFile(filepath.Join(audioDir, vtt))
		}
	}
	if ep.ImageURL != nil && strings.Contains(*ep.ImageURL, "/images/") {
		removeFile(filepath.Join(imagesDir, path.Base(*ep.ImageURL)))
	}
}

func removeFile(p string) {
	if err := os.Remove(p); err == nil {
		log.Debug().Str("file", p).Msg("artifact removed")
	}
}
