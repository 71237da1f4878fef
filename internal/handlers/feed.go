package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/db"
	"news-podcaster/internal/feed"
)

// GetRSSFeed serves the public podcast feed of completed episodes.
func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	episodes, err := db.ListCompletedEpisodes(listLimit)
	if err != nil {
		log.Error().Err(err).Msg("feed episode query failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(h.cfg, episodes)
	if err != nil {
		log.Error().Err(err).Msg("feed generation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

// ServeAudioFile serves an episode MP3 (and its sibling .vtt transcript).
func (h *Handlers) ServeAudioFile(w http.ResponseWriter, r *http.Request) {
	h.serveFrom(w, r, h.cfg.AudioDir)
}

// ServeImageFile serves locally hosted episode artwork.
func (h *Handlers) ServeImageFile(w http.ResponseWriter, r *http.Request) {
	h.serveFrom(w, r, h.cfg.ImagesDir)
}

// ServeStaticFile serves fixed assets like the podcast cover.
func (h *Handlers) ServeStaticFile(w http.ResponseWriter, r *http.Request) {
	h.serveFrom(w, r, h.cfg.StaticDir)
}

func (h *Handlers) serveFrom(w http.ResponseWriter, r *http.Request, dir string) {
	filename := mux.Vars(r)["filename"]
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(dir, filename))
}
