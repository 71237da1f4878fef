package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jpillora/backoff"
	_ "github.com/lib/pq" // The database driver
	"github.com/rs/zerolog/log"
)

// DB is the global database connection.
var DB *sqlx.DB

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL DEFAULT 'Untitled',
	source TEXT,
	source_url TEXT,
	article_text TEXT NOT NULL,
	script TEXT,
	audio_filename TEXT,
	duration_seconds INTEGER,
	image_url TEXT,
	status TEXT NOT NULL DEFAULT 'processing',
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const initAttempts = 5

// InitDB connects to the database and creates the schema, retrying connection
// failures with exponential backoff. Exhausting the retries is fatal to
// process startup; the caller gets the last error.
func InitDB(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Factor: 2,
	}

	var lastErr error
	for attempt := 1; attempt <= initAttempts; attempt++ {
		conn, err := sqlx.Connect("postgres", databaseURL)
		if err == nil {
			if _, err = conn.Exec(schema); err == nil {
				DB = conn
				log.Info().Msg("database connection established")
				return nil
			}
			conn.Close()
		}
		lastErr = err
		wait := b.Duration()
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).
			Msg("database init failed")
		if attempt < initAttempts {
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("database init failed after %d attempts: %w", initAttempts, lastErr)
}
