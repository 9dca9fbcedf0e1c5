package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"

	"github.com/victormacedov/social-media-agent/internal/app"
	"github.com/victormacedov/social-media-agent/internal/config"
	"github.com/victormacedov/social-media-agent/internal/logger"
	"github.com/victormacedov/social-media-agent/internal/server"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "social-media-agent").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("model", cfg.OllamaModel).WithField("backend", cfg.OllamaBaseURL).Info("configuration loaded")

	application := app.New(cfg)

	// wait for the generation backend before accepting traffic
	if err := waitForBackend(application); err != nil {
		log.WithError(err).Fatal("generation backend unreachable")
	}
	log.Info("generation backend reachable")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      server.New(application.Transcripts, application.Posts).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func waitForBackend(application *app.App) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return application.Backend.Ping(ctx)
	}, bo)
}
