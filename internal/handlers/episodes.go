package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/db"
	"news-podcaster/internal/extract"
	"news-podcaster/internal/models"
	"news-podcaster/internal/pipeline"
)

const listLimit = 50

type submitRequest struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

type submitResponse struct {
	Status    string `json:"status"`
	EpisodeID string `json:"episode_id"`
	Message   string `json:"message"`
}

type episodeResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Source       *string `json:"source"`
	SourceURL    *string `json:"source_url"`
	Status       string  `json:"status"`
	AudioURL     *string `json:"audio_url"`
	ImageURL     *string `json:"image_url"`
	CreatedAt    string  `json:"created_at"`
	ErrorMessage *string `json:"error_message"`
}

// Sharing apps sometimes hand over "Title https://..." as one string; keep
// only the URL itself.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// SubmitArticle accepts an article by URL or raw text, creates the episode
// in the processing state and kicks off the background pipeline. Validation
// failures surface synchronously, before any episode exists.
func (h *Handlers) SubmitArticle(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	log.Info().Str("url", req.URL).Int("text_chars", len(req.Text)).Str("title", req.Title).
		Msg("POST /submit")

	if req.Text == "" && req.URL == "" {
		respondError(w, http.StatusBadRequest, "Provide at least 'text' or 'url'.")
		return
	}
	if req.URL != "" {
		if m := urlPattern.FindString(req.URL); m != "" {
			req.URL = m
		}
	}

	var article models.Article
	var err error
	if req.Text != "" {
		article, err = extract.FromText(req.Text, req.Title, req.Source)
	} else {
		article, err = extract.FromURL(req.URL)
	}
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Source != "" {
		article.Source = req.Source
	}

	h.createAndProcess(w, article)
}

// UploadPDF accepts a PDF document for processing.
func (h *Handlers) UploadPDF(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A PDF file upload is required.")
		return
	}
	defer file.Close()
	log.Info().Str("file", header.Filename).Msg("POST /upload")

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		respondError(w, http.StatusBadRequest, "Only PDF files are accepted.")
		return
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	tmp.Close()

	article, err := extract.FromPDF(tmp.Name())
	if err != nil {
		log.Warn().Err(err).Msg("pdf extraction failed")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if title := r.FormValue("title"); title != "" {
		article.Title = title
	}
	if source := r.FormValue("source"); source != "" {
		article.Source = source
	}

	h.createAndProcess(w, article)
}

func (h *Handlers) createAndProcess(w http.ResponseWriter, article models.Article) {
	var source, sourceURL *string
	if article.Source != "" {
		source = &article.Source
	}
	if article.SourceURL != "" {
		sourceURL = &article.SourceURL
	}
	title := article.Title
	if title == "" {
		title = "Untitled"
	}

	episode, err := db.CreateEpisode(article.Text, title, source, sourceURL)
	if err != nil {
		log.Error().Err(err).Msg("episode create failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	log.Info().Str("episode", episode.ID.String()).Str("title", title).Msg("episode created")

	h.spawn(episode.ID, article)

	respondJSON(w, http.StatusOK, submitResponse{
		Status:    models.StatusProcessing,
		EpisodeID: episode.ID.String(),
		Message:   fmt.Sprintf("Article '%s' is being processed", title),
	})
}

// GetEpisodes lists recent episodes for the dashboard.
func (h *Handlers) GetEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := db.ListEpisodes(listLimit)
	if err != nil {
		log.Error().Err(err).Msg("episode list failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]episodeResponse, 0, len(episodes))
	for i := range episodes {
		out = append(out, h.episodeToResponse(&episodes[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetEpisode returns one episode's status and metadata.
func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid episode ID")
		return
	}
	episode, err := db.GetEpisode(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Episode not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, h.episodeToResponse(&episode))
}

// DeleteEpisode removes an episode and reconciles its on-disk artifacts.
// Deleting the same episode twice reports not-found the second time.
func (h *Handlers) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid episode ID")
		return
	}
	episode, err := db.DeleteEpisode(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Episode not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pipeline.RemoveArtifacts(episode, h.cfg.AudioDir, h.cfg.ImagesDir)
	log.Info().Str("episode", id.String()).Str("title", episode.Title).Msg("episode deleted")
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "title": episode.Title})
}

func (h *Handlers) episodeToResponse(ep *models.Episode) episodeResponse {
	var audioURL *string
	if ep.AudioFilename != nil && *ep.AudioFilename != "" {
		u := strings.TrimRight(h.cfg.BaseURL, "/") + "/audio/" + *ep.AudioFilename
		audioURL = &u
	}
	return episodeResponse{
		ID:           ep.ID.String(),
		Title:        ep.Title,
		Source:       ep.Source,
		SourceURL:    ep.SourceURL,
		Status:       ep.Status,
		AudioURL:     audioURL,
		ImageURL:     ep.ImageURL,
		CreatedAt:    ep.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		ErrorMessage: ep.ErrorMessage,
	}
}
