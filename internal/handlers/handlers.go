package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"news-podcaster/internal/config"
	"news-podcaster/internal/models"
)

// Pipeline runs the background processing for one submitted article. It is
// implemented by pipeline.Processor and mocked in tests.
type Pipeline interface {
	Process(ctx context.Context, episodeID uuid.UUID, article models.Article) error
}

type Handlers struct {
	cfg      config.Config
	pipeline Pipeline
}

func New(cfg config.Config, p Pipeline) *Handlers {
	return &Handlers{cfg: cfg, pipeline: p}
}

// spawn starts the detached background run for an episode. The submission
// response does not wait for it.
func (h *Handlers) spawn(episodeID uuid.UUID, article models.Article) {
	go func() {
		if err := h.pipeline.Process(context.Background(), episodeID, article); err != nil {
			log.Debug().Err(err).Str("episode", episodeID.String()).
				Msg("background processing ended in failure state")
		}
	}()
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}
