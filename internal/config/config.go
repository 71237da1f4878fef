package config

import (
	"os"
	"strconv"
)

// Config carries all environment-derived settings. It is built once in main
// and handed to components at construction; nothing else reads the
// environment.
type Config struct {
	DatabaseURL string
	Port        string
	BaseURL     string

	// APIKey protects submit/delete endpoints. Empty disables auth
	// (development only).
	APIKey string

	AudioDir  string
	ImagesDir string
	StaticDir string
	OutroPath string

	RetentionDays int

	AnthropicAPIKey string
	AnthropicModel  string

	ElevenLabsAPIKey string
	// ElevenLabsVoices maps a language code to a voice ID. The "nl" entry
	// doubles as the default voice.
	ElevenLabsVoices map[string]string
	ElevenLabsModel  string

	OpenAIAPIKey     string
	OpenAITTSVoice   string
	OpenAITTSModel   string
	TTSInstructions  string
	TranscriptMode   string
	TranscriptAPIKey string

	GoogleTTSAPIKey string
	// GoogleTTSVoices maps a language code to a voice name.
	GoogleTTSVoices map[string]string

	NtfyURL   string
	NtfyTopic string

	PodcastTitle       string
	PodcastDescription string
	PodcastAuthor      string
	PodcastLanguage    string
	PodcastImageURL    string
	PodcastOwnerEmail  string
}

// Load builds a Config from the environment. Call godotenv.Load first.
func Load() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getenv("PORT", "8080"),
		BaseURL:     getenv("BASE_URL", "http://localhost:8080"),
		APIKey:      os.Getenv("API_KEY"),

		AudioDir:  getenv("AUDIO_DIR", "output"),
		ImagesDir: getenv("IMAGES_DIR", "images"),
		StaticDir: getenv("STATIC_DIR", "static"),
		OutroPath: getenv("OUTRO_PATH", "static/outro.mp3"),

		RetentionDays: getint("RETENTION_DAYS", 14),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getenv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),

		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsModel:  getenv("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
		ElevenLabsVoices: voiceTable("ELEVENLABS_VOICE_ID"),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAITTSVoice:   getenv("OPENAI_TTS_VOICE", "nova"),
		OpenAITTSModel:   getenv("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		TTSInstructions:  os.Getenv("TTS_INSTRUCTIONS"),
		TranscriptMode:   getenv("TRANSCRIPT_MODE", "none"),
		TranscriptAPIKey: os.Getenv("TRANSCRIPT_OPENAI_API_KEY"),

		GoogleTTSAPIKey: os.Getenv("GOOGLE_TTS_API_KEY"),
		GoogleTTSVoices: voiceTable("GOOGLE_TTS_VOICE"),

		NtfyURL:   getenv("NTFY_URL", "https://ntfy.sh"),
		NtfyTopic: os.Getenv("NTFY_TOPIC"),

		PodcastTitle:       getenv("PODCAST_TITLE", "My News Podcast"),
		PodcastDescription: getenv("PODCAST_DESCRIPTION", "News articles turned into podcast episodes"),
		PodcastAuthor:      getenv("PODCAST_AUTHOR", "News Podcast"),
		PodcastLanguage:    getenv("PODCAST_LANGUAGE", "nl"),
		PodcastImageURL:    os.Getenv("PODCAST_IMAGE_URL"),
		PodcastOwnerEmail:  os.Getenv("PODCAST_OWNER_EMAIL"),
	}
	if cfg.TranscriptAPIKey == "" {
		cfg.TranscriptAPIKey = cfg.OpenAIAPIKey
	}
	return cfg
}

// voiceTable reads prefix (the default voice, keyed "nl") plus per-language
// overrides like PREFIX_EN, PREFIX_EN_GB, PREFIX_DE.
func voiceTable(prefix string) map[string]string {
	table := map[string]string{}
	if v := os.Getenv(prefix); v != "" {
		table["nl"] = v
	}
	for env, lang := range map[string]string{
		prefix + "_NL":    "nl",
		prefix + "_EN":    "en",
		prefix + "_EN_GB": "en-GB",
		prefix + "_DE":    "de",
	} {
		if v := os.Getenv(env); v != "" {
			table[lang] = v
		}
	}
	return table
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
