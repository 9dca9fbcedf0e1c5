// Package server exposes the single inbound operation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/victormacedov/social-media-agent/internal/generation"
	"github.com/victormacedov/social-media-agent/internal/logger"
	"github.com/victormacedov/social-media-agent/internal/pipeline"
	"github.com/victormacedov/social-media-agent/internal/posts"
	"github.com/victormacedov/social-media-agent/internal/video"
)

// TranscriptResolver is the pipeline's inbound face.
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string) (pipeline.Transcript, error)
}

// PostMaker turns a transcript into the three-platform bundle.
type PostMaker interface {
	GeneratePosts(ctx context.Context, transcript string) (posts.Bundle, error)
}

type Server struct {
	transcripts TranscriptResolver
	posts       PostMaker
	log         *logger.Logger
}

func New(transcripts TranscriptResolver, postMaker PostMaker) *Server {
	return &Server{
		transcripts: transcripts,
		posts:       postMaker,
		log:         logger.New(),
	}
}

// Routes wires the handlers onto a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/generate_post", s.handleGeneratePost)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

type generatePostRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleGeneratePost(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "generate_post")

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		reqLog.Warn("bad request body")
		http.Error(w, "body must be JSON with a url field", http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("url", req.URL)

	ref, err := video.ParseReference(req.URL)
	if err != nil {
		reqLog.Warn("unrecognized video URL")
		http.Error(w, "invalid YouTube URL", http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("video_id", ref.ID)

	transcript, err := s.transcripts.Resolve(r.Context(), ref.ID)
	if err != nil {
		s.writeResolveError(w, reqLog, err)
		return
	}
	reqLog.WithField("origin", transcript.Origin).Info("transcript obtained")

	bundle, err := s.posts.GeneratePosts(r.Context(), transcript.Text)
	if err != nil {
		var backendErr *generation.BackendError
		if errors.As(err, &backendErr) {
			reqLog.WithField("error", err.Error()).Error("generation backend failed")
			http.Error(w, "generation backend unavailable", http.StatusBadGateway)
			return
		}
		reqLog.WithField("error", err.Error()).Error("post generation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		reqLog.WithField("error", err.Error()).Error("failed to write response")
	}
}

func (s *Server) writeResolveError(w http.ResponseWriter, reqLog *logrus.Entry, err error) {
	if errors.Is(err, pipeline.ErrNoTranscript) {
		reqLog.Warn("no transcript available")
		http.Error(w, "could not obtain a transcript for this video", http.StatusBadRequest)
		return
	}
	reqLog.WithField("error", err.Error()).Error("transcript resolution failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
