package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	envOllamaBaseURL     = "OLLAMA_BASE_URL"
	envOllamaModel       = "OLLAMA_MODEL"
	envPort              = "PORT"
	envMediaCacheDir     = "MEDIA_CACHE_DIR"
	envLanguages         = "TRANSCRIPT_LANGUAGES"
	envWhisperBin        = "WHISPER_BIN"
	envWhisperModel      = "WHISPER_MODEL"
	envWhisperLanguage   = "WHISPER_LANGUAGE"
	envGenerationTimeout = "GENERATION_TIMEOUT"
)

// Config holds everything the process needs, resolved once at startup.
type Config struct {
	OllamaBaseURL string
	OllamaModel   string

	Port          string
	MediaCacheDir string

	// Caption languages tried in order before falling back to audio.
	Languages []string

	WhisperBin      string
	WhisperModel    string
	WhisperLanguage string

	GenerationTimeout time.Duration
}

// Load reads configuration from the environment. The generation backend
// settings are mandatory; the process must not start without them.
func Load() (*Config, error) {
	cfg := &Config{
		OllamaBaseURL:     strings.TrimRight(os.Getenv(envOllamaBaseURL), "/"),
		OllamaModel:       os.Getenv(envOllamaModel),
		Port:              envOr(envPort, "8080"),
		MediaCacheDir:     envOr(envMediaCacheDir, "downloads"),
		WhisperBin:        envOr(envWhisperBin, "whisper-cli"),
		WhisperModel:      envOr(envWhisperModel, "models/ggml-tiny-q8_0.bin"),
		WhisperLanguage:   envOr(envWhisperLanguage, "pt"),
		GenerationTimeout: 120 * time.Second,
	}

	if cfg.OllamaBaseURL == "" || cfg.OllamaModel == "" {
		return nil, fmt.Errorf("%s and %s must be set", envOllamaBaseURL, envOllamaModel)
	}

	for _, lang := range strings.Split(envOr(envLanguages, "pt,en"), ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			cfg.Languages = append(cfg.Languages, lang)
		}
	}

	if raw := os.Getenv(envGenerationTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envGenerationTimeout, err)
		}
		cfg.GenerationTimeout = d
	}

	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
