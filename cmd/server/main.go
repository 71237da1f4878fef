package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"news-podcaster/internal/artwork"
	"news-podcaster/internal/config"
	"news-podcaster/internal/db"
	"news-podcaster/internal/handlers"
	"news-podcaster/internal/middleware"
	"news-podcaster/internal/notify"
	"news-podcaster/internal/pipeline"
	"news-podcaster/internal/scriptgen"
	"news-podcaster/internal/transcript"
	"news-podcaster/internal/tts"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}
	setupLogging()

	cfg := config.Load()
	log.Info().Str("base_url", cfg.BaseURL).Str("audio_dir", cfg.AudioDir).
		Str("commit", CommitSHA).Msg("config loaded")

	for _, dir := range []string{cfg.AudioDir, cfg.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("could not create data directory")
		}
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	// Clean up at every (re)start, before accepting submissions.
	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
	if err := pipeline.CleanupExpired(retention, cfg.AudioDir, cfg.ImagesDir); err != nil {
		log.Warn().Err(err).Msg("retention sweep failed")
	}
	if err := pipeline.CleanupOrphans(cfg.AudioDir, cfg.ImagesDir); err != nil {
		log.Warn().Err(err).Msg("orphan sweep failed")
	}

	processor := &pipeline.Processor{
		Scripts: scriptgen.NewGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel),
		Audio: tts.NewChain(cfg.OutroPath,
			tts.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoices, cfg.ElevenLabsModel),
			tts.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAITTSVoice, cfg.OpenAITTSModel, cfg.TTSInstructions),
			tts.NewGoogle(cfg.GoogleTTSAPIKey, cfg.GoogleTTSVoices),
		),
		Transcripts:    transcript.NewGenerator(cfg.TranscriptMode, cfg.AudioDir, cfg.TranscriptAPIKey),
		Notifier:       notify.New(cfg.NtfyURL, cfg.NtfyTopic),
		AudioDir:       cfg.AudioDir,
		ImagesDir:      cfg.ImagesDir,
		BaseURL:        cfg.BaseURL,
		ProcessArtwork: artwork.Process,
	}

	h := handlers.New(cfg, processor)
	auth := middleware.AuthMiddleware(cfg.APIKey)
	limiter := middleware.NewRateLimiterMiddleware(rate.Every(time.Minute/10), 5)

	r := mux.NewRouter()
	r.Handle("/submit", limiter.Middleware(auth(http.HandlerFunc(h.SubmitArticle)))).Methods(http.MethodPost)
	r.Handle("/upload", limiter.Middleware(auth(http.HandlerFunc(h.UploadPDF)))).Methods(http.MethodPost)
	r.HandleFunc("/feed.xml", h.GetRSSFeed).Methods(http.MethodGet)
	r.HandleFunc("/episodes", h.GetEpisodes).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{id}", h.GetEpisode).Methods(http.MethodGet)
	r.Handle("/episodes/{id}", auth(http.HandlerFunc(h.DeleteEpisode))).Methods(http.MethodDelete)
	r.HandleFunc("/audio/{filename}", h.ServeAudioFile).Methods(http.MethodGet)
	r.HandleFunc("/images/{filename}", h.ServeImageFile).Methods(http.MethodGet)
	r.HandleFunc("/static/{filename}", h.ServeStaticFile).Methods(http.MethodGet)

	log.Info().Str("port", cfg.Port).Msg("server ready for requests")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if fi, _ := os.Stderr.Stat(); fi != nil && fi.Mode()&os.ModeCharDevice != 0 {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}
