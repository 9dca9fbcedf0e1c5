// Package app wires the concrete components together so the HTTP
// server and the CLI share one construction path.
package app

import (
	"github.com/victormacedov/social-media-agent/internal/caption"
	"github.com/victormacedov/social-media-agent/internal/config"
	"github.com/victormacedov/social-media-agent/internal/generation"
	"github.com/victormacedov/social-media-agent/internal/media"
	"github.com/victormacedov/social-media-agent/internal/pipeline"
	"github.com/victormacedov/social-media-agent/internal/posts"
	"github.com/victormacedov/social-media-agent/internal/whisper"
)

type App struct {
	Transcripts *pipeline.Pipeline
	Posts       *posts.Generator
	Backend     *generation.Client
}

// New builds the full component graph. The whisper engine is created
// here, once per process, and shared by every request.
func New(cfg *config.Config) *App {
	backend := generation.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.GenerationTimeout)
	engine := whisper.NewEngine(cfg.WhisperBin, cfg.WhisperModel, cfg.WhisperLanguage)

	return &App{
		Transcripts: pipeline.New(
			caption.NewFetcher(cfg.MediaCacheDir),
			media.NewAcquirer(cfg.MediaCacheDir),
			engine,
			cfg.Languages,
		),
		Posts:   posts.NewGenerator(backend),
		Backend: backend,
	}
}
